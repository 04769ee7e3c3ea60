package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Identity is one auth entry: either a pre-obtained token or credentials that
// are exchanged for a token through the login endpoint.
type Identity struct {
	Token       string
	Credentials map[string]any
}

func Token(token string) Identity {
	return Identity{Token: token}
}

func Credentials(creds map[string]any) Identity {
	if creds == nil {
		creds = map[string]any{}
	}
	return Identity{Credentials: creds}
}

// IsToken reports whether the identity skips the login request.
func (i Identity) IsToken() bool {
	return i.Credentials == nil
}

func (i Identity) IsZero() bool {
	return i.Credentials == nil && i.Token == ""
}

func (i *Identity) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*i = Token(node.Value)
	case yaml.MappingNode:
		var creds map[string]any
		if err := node.Decode(&creds); err != nil {
			return err
		}
		*i = Credentials(creds)
	default:
		return fmt.Errorf("line %d: auth entry must be a token or a credentials object", node.Line)
	}
	return nil
}

// Auth is the auth field of a test: absent, a single identity or an ordered
// list of identities run in parallel.
type Auth struct {
	identities []Identity
	multi      bool
}

func Single(id Identity) Auth {
	return Auth{identities: []Identity{id}}
}

func Multi(ids ...Identity) Auth {
	return Auth{identities: append([]Identity(nil), ids...), multi: true}
}

// IsZero reports whether no auth flow applies. An empty list is not zero.
func (a Auth) IsZero() bool {
	if a.multi {
		return false
	}
	return len(a.identities) == 0 || a.identities[0].IsZero()
}

func (a Auth) IsMulti() bool {
	return a.multi
}

func (a Auth) Identities() []Identity {
	return append([]Identity(nil), a.identities...)
}

func (a *Auth) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		var id Identity
		if err := id.UnmarshalYAML(node); err != nil {
			return err
		}
		*a = Single(id)
		return nil
	}
	ids := make([]Identity, len(node.Content))
	for i, item := range node.Content {
		if err := ids[i].UnmarshalYAML(item); err != nil {
			return err
		}
	}
	*a = Multi(ids...)
	return nil
}
