// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"html/template"
	"os"

	"github.com/fourscore/gradus-engine/pkg/types"
)

// htmlPage is the DataTables-backed index page. Paging is off so the
// whole section is searchable on one page; the table keeps the
// id="dataframe" hook the script block binds to.
const htmlPage = `<!DOCTYPE html>
<html>
<head>
    <title>&#34;Gradus&#34; Scores. Search and Sort.</title>
    <link rel="stylesheet" type="text/css" href="https://cdn.datatables.net/1.13.4/css/jquery.dataTables.css">
    <style>
        /* Table width to prevent horizontal scroll */
        .container { max-width: 100%; }
        .table { width: 100%; }
    </style>
</head>
<body>
    <div class="container">
        <table id="dataframe" class="table table-striped table-hover">
            <thead>
                <tr>{{range .Headers}}
                    <th>{{.}}</th>{{end}}
                </tr>
            </thead>
            <tbody>{{range .Rows}}
                <tr>
                    <td>{{.MeasureStart}}</td>
                    <td>{{.Name}}</td>
                    <td>{{.Species}}</td>
                    <td>{{.ModalFinal}}</td>
                    <td>{{.CantusFirmus}}</td>
                    <td>{{.MeasureEnd}}</td>
                    <td>{{.MeasureCount}}</td>
                    <td>{{.Download}}</td>
                    <td>{{.VHV}}</td>
                </tr>{{end}}
            </tbody>
        </table>
    </div>

<script src="https://code.jquery.com/jquery-3.6.0.min.js"></script>
<script src="https://cdn.datatables.net/1.13.4/js/jquery.dataTables.js"></script>
<script>
    $(document).ready(function() {
        $('#dataframe').DataTable({
            paging: false,
            searching: true,
            ordering: true,
            search: {
                name: 'search_input'
            }
        });
    });
</script>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("search").Parse(htmlPage))

// htmlRow is one table row. The two link cells carry markup built by
// our own formatters; everything else is escaped by the template.
type htmlRow struct {
	types.Figure
	Download template.HTML
	VHV      template.HTML
}

type htmlData struct {
	Headers []string
	Rows    []htmlRow
}

// WriteHTML writes the searchable/sortable HTML index for a section
// to path, linking each figure to its published downloads and to the
// Verovio Humdrum Viewer.
func WriteHTML(figures []types.Figure, cfg types.ReportConfig, path string) error {
	rawBase := cfg.RawBase
	if rawBase == "" {
		rawBase = DefaultRawBase
	}
	vhvBase := cfg.VHVBase
	if vhvBase == "" {
		vhvBase = DefaultVHVBase
	}

	data := htmlData{
		Headers: append(append([]string{}, columnNames...), "Direct download", "View on VHV"),
		Rows:    make([]htmlRow, len(figures)),
	}
	for i, fig := range figures {
		data.Rows[i] = htmlRow{
			Figure:   fig,
			Download: template.HTML(DownloadLinks(rawBase, fig.Name)),
			VHV:      template.HTML(VHVLink(vhvBase, fig.Name)),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
