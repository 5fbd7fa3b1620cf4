// Package report writes crawl results.
//
// Three formats are available:
//   - SimpleWriter streams plain or coloured text as each query finishes
//   - JSONWriter collects every query and writes one JSON document on Flush
//   - MarkdownWriter collects every query and writes a Markdown document
//     with a summary table and a mermaid pie chart on Flush
//
// All writers implement Writer. The crawler calls WriteHeader when a
// query's first page arrives and WriteMatches when the query is complete.
package report
