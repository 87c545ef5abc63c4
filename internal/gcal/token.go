package gcal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

type credState int

const (
	credValid       credState = iota // usable as-is
	credRefresh                      // expired, refreshable without the user
	credInteractive                  // must run the authorization dialog
)

func credentialState(tok *oauth2.Token, err error) credState {
	switch {
	case err != nil || tok == nil:
		return credInteractive
	case tok.Valid():
		return credValid
	case tok.RefreshToken != "":
		return credRefresh
	default:
		return credInteractive
	}
}

// authorize drives the out-of-band authorization dialog: print the consent
// URL, read the code back, exchange it for a token.
func authorize(ctx context.Context, cfg *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	if in == nil || out == nil {
		return nil, fmt.Errorf("no interactive channel for authorization")
	}

	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Go to the following link in your browser then type the authorization code:\n%v\n", url)
	fmt.Fprint(out, "Enter Authorization Code: ")

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && code == "" {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
