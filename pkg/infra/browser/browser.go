package browser

import (
	"github.com/pkg/browser"

	"github.com/m-mizutani/vimpub/pkg/domain/interfaces"
)

// Opener shows URLs in the user's web browser
type Opener struct{}

var _ interfaces.PageOpener = (*Opener)(nil)

// New creates a browser-backed page opener
func New() *Opener {
	return &Opener{}
}

func (*Opener) Open(url string) error {
	return browser.OpenURL(url)
}
