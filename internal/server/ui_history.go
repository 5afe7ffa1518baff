package server

const uiSharedHead = `{{define "head"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.}}</title>
  <style>
    :root {
      --bg: #f2f7f4;
      --bg2: #d9efe2;
      --card: #ffffff;
      --ink: #1f2a24;
      --muted: #5f6f67;
      --ok: #1f8a4c;
      --bad: #b23a48;
      --warn: #c98a14;
      --accent: #157f66;
      --line: #c4ddd0;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Avenir Next", "Segoe UI", sans-serif;
      color: var(--ink);
      background: radial-gradient(circle at 20% 0%, var(--bg2), var(--bg));
    }
    main { max-width: 1150px; margin: 24px auto; padding: 0 16px; }
    .card {
      background: var(--card);
      border: 1px solid var(--line);
      border-radius: 12px;
      padding: 16px;
      margin-bottom: 16px;
      box-shadow: 0 8px 24px rgba(21,127,102,.08);
    }
    a { color: var(--accent); }
    table { border-collapse: collapse; width: 100%; }
    th, td { padding: 6px 8px; border-bottom: 1px solid var(--line); text-align: left; font-size: 14px; }
    .muted { color: var(--muted); }
    .num { text-align: right; font-variant-numeric: tabular-nums; }
    .cell { width: 18px; height: 18px; border-radius: 4px; display: inline-block; }
    .pass { background: var(--ok); }
    .fail { background: var(--bad); }
    .error { background: var(--warn); }
    .skip, .none { background: var(--line); }
    .err { color: var(--bad); }
  </style>
</head>
<body>
<main>
{{end}}`

const indexHTML = `{{template "head" "pagehist"}}
  <div class="card">
    <h1>Projects</h1>
    {{if .}}
    <table>
      <tr><th>Project</th><th class="num">Builds</th><th class="num">Last build</th></tr>
      {{range .}}
      <tr>
        <td><a href="/projects/{{pathEscape .Name}}/history">{{.Name}}</a></td>
        <td class="num">{{.Builds}}</td>
        <td class="num">{{if .LastBuild}}#{{.LastBuild}}{{else}}<span class="muted">none</span>{{end}}</td>
      </tr>
      {{end}}
    </table>
    {{else}}
    <p class="muted">No projects yet.</p>
    {{end}}
  </div>
</main>
</body>
</html>`

const historyHTML = `{{template "head" .Project}}
  <div class="card">
    <p><a href="/">&larr; projects</a></p>
    <h1>{{.Project}} page history</h1>
    {{if .Error}}<p class="err">{{.Error}}</p>{{end}}
    {{if .Rows}}
    <table>
      <tr>
        <th>Page</th>
        <th class="num">Erraticness</th>
        {{range .Builds}}<th class="num">#{{.Number}}</th>{{end}}
      </tr>
      {{range .Rows}}
      <tr>
        <td>{{.Rank.Page}}</td>
        <td class="num" title="{{.Rank.Switches}} switches in {{.Rank.Occurrences}} runs">{{.Rank.Erraticness}}%</td>
        {{range .Cells}}<td><span class="cell {{.Status}}" title="{{.Title}}"></span></td>{{end}}
      </tr>
      {{end}}
    </table>
    {{else}}
    <p class="muted">No page results recorded.</p>
    {{end}}
  </div>
</main>
</body>
</html>`
