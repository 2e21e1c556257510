// Package web serves the GM and player page shells. The heavy lifting
// happens client-side in the static scripts; the pages stay thin.
package web

import (
	"context"
	"embed"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

//go:embed static
var StaticFS embed.FS

func page(title, bodyHTML, script string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
%s
<script src="/static/fow.js"></script>
<script src="%s"></script>
</body>
</html>
`, title, bodyHTML, script)
		return err
	})
}

func HomePage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>fogtable</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body class="home">
<main>
<h1>fogtable</h1>
<p>Shared map table with fog of war.</p>
<nav>
<a class="role" href="/gm">Game master</a>
<a class="role" href="/player">Player</a>
</nav>
</main>
</body>
</html>
`)
		return err
	})
}

func GMPage() templ.Component {
	return page("fogtable — GM", `<div id="app" class="gm">
<aside id="sidebar">
<input id="upload" type="file" accept="image/*,video/*">
<ul id="map-list"></ul>
<div id="tools">
<button id="tool-pan" class="active">Pan</button>
<button id="tool-brush">Brush</button>
<button id="tool-eraser">Eraser</button>
<button id="fog-fill">Cover all</button>
<button id="fog-clear">Reveal all</button>
<button id="center-view">Center</button>
<input id="brush-size" type="range" min="10" max="200" value="50">
</div>
</aside>
<div id="stage"><canvas id="canvas"></canvas></div>
</div>`, "/static/gm.js")
}

func PlayerPage() templ.Component {
	return page("fogtable — player", `<div id="app" class="player">
<div id="idle">Waiting for the GM&hellip;</div>
<div id="stage"><canvas id="canvas"></canvas></div>
</div>`, "/static/player.js")
}
