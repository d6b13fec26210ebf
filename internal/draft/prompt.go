package draft

import (
	"errors"
	"fmt"

	"github.com/hal9000y/gmail-reply-drafter/internal/completion"
)

const (
	systemTemplate = "%sです。ビジネスメールの返信を書いています。"
	userTemplate   = "以下の内容のビジネスメールに対して、%[1]sとして返信を書いています。%[2]sの姿勢で丁寧な返信の下書きを作成してください。署名は%[3]sでお願いします。\n\n%[4]s"
)

// Identity is the author of generated replies. It is immutable; the zero
// value has no signature and is rejected by Compose.
type Identity struct {
	displayName  string
	organization string
	title        string
	email        string

	signature string
}

// NewIdentity builds an Identity and derives its signature block once.
func NewIdentity(displayName, organization, title, email string) Identity {
	return Identity{
		displayName:  displayName,
		organization: organization,
		title:        title,
		email:        email,
		signature:    fmt.Sprintf("\n--%s\n%s\n%s\nemail: %s\n", organization, displayName, title, email),
	}
}

func (id Identity) DisplayName() string  { return id.displayName }
func (id Identity) Organization() string { return id.organization }
func (id Identity) Title() string        { return id.title }
func (id Identity) Email() string        { return id.email }

// Signature returns the signature block appended to every reply.
func (id Identity) Signature() string {
	return id.signature
}

// Composer builds completion requests for one identity.
type Composer struct {
	identity Identity
	params   completion.Params
}

// NewComposer creates a Composer with deployment-level request params.
func NewComposer(identity Identity, params completion.Params) *Composer {
	return &Composer{identity: identity, params: params}
}

// Compose renders the prompt for action over rc. Same inputs, same request.
func (c *Composer) Compose(action Action, rc Context) (completion.Request, error) {
	if !action.Valid() {
		return completion.Request{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if c.identity.signature == "" {
		return completion.Request{}, errors.New("identity has no signature, build it with NewIdentity")
	}

	return completion.Request{
		System:      fmt.Sprintf(systemTemplate, c.identity.displayName),
		User:        fmt.Sprintf(userTemplate, c.identity.displayName, action, c.identity.Signature(), rc.Excerpt),
		MaxTokens:   c.params.MaxTokens,
		Temperature: c.params.Temperature,
	}, nil
}
