package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
	"github.com/tidwall/gjson"
)

// ErrNoToken is returned when a login response has neither an error nor an id.
var ErrNoToken = errors.New("login response has no id")

// LoginError carries the error value of a rejected login, exactly as the
// endpoint returned it.
type LoginError struct {
	Value any
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Value)
}

// State is the auth shape of a single resolution.
type State int

const (
	NoAuth State = iota
	SingleAuth
	MultiAuth
)

func (s State) String() string {
	switch s {
	case SingleAuth:
		return "single"
	case MultiAuth:
		return "multi"
	default:
		return "none"
	}
}

// StateOf classifies a resolved auth value.
func StateOf(a definition.Auth) State {
	switch {
	case a.IsMulti():
		return MultiAuth
	case a.IsZero():
		return NoAuth
	default:
		return SingleAuth
	}
}

// Login exchanges an identity for a token. Tokens are returned without a
// request; credentials are posted as JSON to the configured auth URL and the
// response id is used as the token, unchanged.
func Login(ctx context.Context, client *http.Client, id definition.Identity, cfg *config.Config) (string, error) {
	log := logging.FromContext(ctx).WithComponent("auth")

	if id.IsToken() {
		log.Debug("using preset token")
		return id.Token, nil
	}

	url := cfg.AuthURL()
	log.Debug("logging in", "url", url)

	resp, err := client.Call("POST", url).
		Set("Accept", "application/json").
		Set("Content-Type", "application/json").
		Send(id.Credentials).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("login request to %s: %w", url, err)
	}

	body := resp.BodyJSON()
	if e := body.Get("error"); truthy(e) {
		log.Debug("login rejected", "error", e.Value())
		return "", &LoginError{Value: e.Value()}
	}

	token := body.Get("id")
	if !truthy(token) {
		return "", ErrNoToken
	}
	return token.String(), nil
}

// truthy follows the usual JSON truthiness: null, false, 0 and "" are false.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return r.Exists()
	}
}
