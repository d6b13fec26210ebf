package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/jhillyerd/enmime"
)

// ParseMessage reads an RFC 5322 message. Body is the plain-text part, or
// text derived from the HTML part when there is no plain-text part.
func ParseMessage(r io.Reader) (Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return Message{}, fmt.Errorf("enmime.ReadEnvelope failed: %w", err)
	}

	return Message{
		Sender:  sender(env),
		Subject: env.GetHeader("Subject"),
		Body:    env.Text,
	}, nil
}

// sender parses From before decoding, so display names carrying specials such
// as commas stay quoted and the result parses back as one address.
func sender(env *enmime.Envelope) string {
	addrs, err := env.AddressList("From")
	if err != nil || len(addrs) == 0 {
		return env.GetHeader("From")
	}
	return FormatAddress(addrs[0])
}

// FormatAddress renders a as "name" <addr>, quoting the name only when needed.
// Unlike mail.Address.String it keeps non-ASCII names readable.
func FormatAddress(a *mail.Address) string {
	if a.Name == "" {
		return a.Address
	}

	name := a.Name
	if strings.ContainsAny(name, "()<>[]:;@\\,.\"") {
		name = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name) + `"`
	}

	return name + " <" + a.Address + ">"
}

// Threading carries the headers that attach a reply to its parent.
type Threading struct {
	InReplyTo  string
	References string
}

// BuildReply renders rec as an RFC 5322 plain-text reply from sender.
func BuildReply(sender mail.Address, rec DraftRecord, th Threading) ([]byte, error) {
	to := parseAddress(rec.Recipient)

	b := enmime.Builder().
		From(sender.Name, sender.Address).
		To(to.Name, to.Address).
		Subject(ReplySubject(rec.Subject)).
		Text([]byte(rec.Body))

	if th.InReplyTo != "" {
		b = b.Header("In-Reply-To", th.InReplyTo).
			Header("References", strings.TrimSpace(th.References+" "+th.InReplyTo))
	}

	part, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("builder.Build failed: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("part.Encode failed: %w", err)
	}

	return buf.Bytes(), nil
}

func parseAddress(s string) mail.Address {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return mail.Address{Address: strings.TrimSpace(s)}
	}
	return *addr
}
