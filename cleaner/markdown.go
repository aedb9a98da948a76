package cleaner

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// newMarkdownConverter creates a reusable converter: the base plugin drops
// scripts, styles and other non-content nodes, commonmark renders the rest
// and tables keep their structure with minimal padding.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// ToMarkdown converts htmlContent to Markdown, resolving relative links
// against domain.
func ToMarkdown(conv *converter.Converter, htmlContent, domain string) (string, error) {
	return conv.ConvertString(htmlContent, converter.WithDomain(domain))
}
