package netrc

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
	"github.com/m-mizutani/vimpub/pkg/domain/model"
)

// Store reads credentials from a netrc-style file. Only the machine,
// default, login and password tokens are supported; macdef bodies are
// not.
type Store struct {
	path string
}

var _ interfaces.CredentialStore = (*Store)(nil)

// New creates a credential store backed by the given file
func New(path string) *Store {
	return &Store{path: path}
}

// Lookup returns the credentials for a host, falling back to the
// default entry when the host has none
func (s *Store) Lookup(host string) (model.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Credentials{}, goerr.Wrap(err, "failed to read credentials file", goerr.V("path", s.path))
	}

	entries := parse(string(data))
	creds, ok := entries[host]
	if !ok {
		creds, ok = entries["default"]
	}
	if !ok {
		return model.Credentials{}, goerr.New("no credentials for host",
			goerr.V("host", host),
			goerr.V("path", s.path),
		)
	}
	return creds, nil
}

func parse(content string) map[string]model.Credentials {
	tokens := strings.Fields(content)
	entries := make(map[string]model.Credentials)

	var current string
	var creds model.Credentials
	flush := func() {
		if current != "" {
			entries[current] = creds
		}
	}

	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "machine":
			flush()
			if i++; i < len(tokens) {
				current = tokens[i]
				creds = model.Credentials{}
			}
		case "default":
			flush()
			current = "default"
			creds = model.Credentials{}
		case "login":
			if i++; i < len(tokens) {
				creds.Login = tokens[i]
			}
		case "password":
			if i++; i < len(tokens) {
				creds.Password = tokens[i]
			}
		case "macdef":
			// skip the macro name; the body is ignored
			i++
		}
	}
	flush()
	return entries
}
