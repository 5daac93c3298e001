package core

import (
	"strings"
)

// Separators framing a message as it is presented to the receiving agent.
const (
	MessageSeparator = "############################################"
	PromptSeparator  = "--------------------------------------------"
)

// FormatMessage presents a message body as talk from the named agent.
func FormatMessage(from, body string) string {
	return MessageSeparator + "\n" + from + "'s talk\n" + PromptSeparator + "\n" + body
}

// FormatGreeting is the first message an invited agent sends to its inviter.
func FormatGreeting(from string) string {
	return FormatMessage(from, "Hello, I am "+from+".\nI was invited from you.")
}

// TalkParams is the parsed extra payload of a talk message.
type TalkParams struct {
	Attachments []string
}

// ParseTalkParams parses a comma separated attachment list. Blank entries
// are dropped; an empty string yields no attachments.
func ParseTalkParams(extra string) TalkParams {
	return TalkParams{Attachments: splitList(extra)}
}

// String renders the params back into the wire extra form.
func (p TalkParams) String() string { return strings.Join(p.Attachments, ", ") }

// InviteParams is the parsed extra payload of an invite action.
type InviteParams struct {
	Tools []string
}

// ParseInviteParams keeps the comma separated tool names that the inviter
// actually owns, preserving order.
func ParseInviteParams(extra string, known func(name string) bool) InviteParams {
	var tools []string
	for _, name := range splitList(extra) {
		if known == nil || known(name) {
			tools = append(tools, name)
		}
	}
	return InviteParams{Tools: tools}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
