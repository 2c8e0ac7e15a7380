package templates

import (
	"context"
	"fmt"
	"io"

	"adventure_shop/prompts"
	"adventure_shop/session"
	"adventure_shop/story"

	"github.com/a-h/templ"
)

const head = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`

const style = `<style>
.turn { white-space: pre-wrap; margin: 0.5em 0; }
.turn.user { text-align: right; }
.error { color: #f92672; }
</style>
`

// Index renders the home page: the adventure catalog and a custom theme form.
func Index(title string, catalog []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(head)
		h.text(title)
		h.raw("</title>\n" + style + "</head>\n<body>\n<h1>")
		h.text(title)
		h.raw("</h1>\n<ul id=\"catalog\">\n")
		for _, theme := range catalog {
			h.raw(`<li><form method="post" action="/start"><input type="hidden" name="theme" value="`)
			h.text(theme)
			h.raw(`"><button type="submit">`)
			h.text(theme)
			h.raw("</button></form></li>\n")
		}
		h.raw(`</ul>
<form method="post" action="/start">
<input type="text" name="theme" placeholder="Or name your own adventure" required>
<button type="submit">Start</button>
</form>
</body>
</html>
`)
		return h.err
	})
}

// Chat renders the chat panel for a session.
func Chat(v session.View, startHP int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(head)
		h.text(v.Theme)
		h.raw("</title>\n" + style + "</head>\n<body>\n")

		h.raw(`<header><h2>`)
		h.text(v.Theme)
		h.raw(`</h2><form method="post" action="/home"><button type="submit">Back</button></form></header>` + "\n")

		h.component(ctx, StatsBar(v.Stats, startHP))

		h.raw(`<div id="chat-box">` + "\n")
		for _, turn := range v.Turns {
			h.component(ctx, TurnView(turn))
		}
		if v.Pending() {
			h.component(ctx, TurnView(story.Turn{Text: prompts.ThinkingPlaceholder, IsBot: true}))
		}
		h.raw("</div>\n")

		if v.Error != "" {
			h.raw(`<p class="error" role="alert">`)
			h.text(v.Error)
			h.raw("</p>\n")
		}
		if v.GameOver() {
			h.raw(`<p class="game-over">Your adventure has ended. Use Back to start another.</p>` + "\n")
		}

		h.raw(`<form method="post" action="/send">
<input type="text" name="message" placeholder="Type a message..." autofocus>
<button type="submit">Send</button>
</form>
<a href="/download">Download transcript</a>
</body>
</html>
`)
		return h.err
	})
}

// StatsBar shows the three stats, with HP coloured by how much is left of startHP.
func StatsBar(stats story.Stats, startHP int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		health := GetHealthStatus(stats.HP, startHP)
		h.raw(`<div id="stats"><span style="color: `)
		h.text(health.Color)
		h.raw(`">`)
		h.text(fmt.Sprintf("HP: %d (%s)", stats.HP, health.Description))
		h.raw(`</span> `)
		h.text(fmt.Sprintf("DEF: %d ATK: %d", stats.DEF, stats.ATK))
		h.raw("</div>\n")
		return h.err
	})
}

// TurnView renders one transcript entry.
func TurnView(turn story.Turn) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if turn.IsBot {
			h.raw(`<div class="turn bot">`)
		} else {
			h.raw(`<div class="turn user">`)
		}
		h.text(turn.Text)
		h.raw("</div>\n")
		return h.err
	})
}
