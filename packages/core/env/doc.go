// Package env resolves template expressions in suite files.
//
// It provides functionality for:
//   - Loading .env files into the variable set
//   - Interpolation using {{name}}, {{$ENV_VAR}} and {{function()}} syntax
//   - Collecting variables from HITSUITE_VAR_* environment variables
package env
