// Package templates renders the server's HTML views. Components are written
// in .templ files; run `templ generate` after editing them.
package templates

import (
	"fmt"

	"github.com/JonMunkholm/csvplot/internal/core"
)

func summaryLine(res *core.UploadResult) string {
	return fmt.Sprintf("%d rows, %d columns · uploaded %s",
		res.RowCount, len(res.Columns), res.CreatedAt.Format("2006-01-02 15:04 MST"))
}

func hasMoreRows(res *core.UploadResult) bool {
	return len(res.Preview) < res.RowCount
}

func moreRowsNote(res *core.UploadResult) string {
	return fmt.Sprintf("Showing %d of %d rows.", len(res.Preview), res.RowCount)
}

func uploadJSONURL(res *core.UploadResult) string {
	return "/api/uploads/" + res.UploadID.String()
}
