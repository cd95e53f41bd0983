// Package extract turns a fetched product page into the product facts the
// prompt builder needs: page title, first heading, meta description, the
// first JSON-LD Product record, and the cleaned visible text.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// maxTextRunes bounds the cleaned page text carried into the prompt.
const maxTextRunes = 8000

// Product is the subset of a schema.org Product record useful for listing
// copy.
type Product struct {
	Name         string
	Brand        string
	Description  string
	SKU          string
	GTIN         string
	MPN          string
	Price        string
	Currency     string
	Availability string
	Images       []string
}

// PageInfo is the extracted content of one product page.
type PageInfo struct {
	Title           string
	Heading         string
	MetaDescription string
	Product         *Product
	Text            string
}

// FromHTML extracts product information from HTML, preferring <main> or
// <article> for visible text, falling back to <body>. Boilerplate like
// <nav>, <footer> and consent banners is skipped.
func FromHTML(input []byte) PageInfo {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return PageInfo{}
	}

	info := PageInfo{
		Title:           strings.TrimSpace(findTitle(node)),
		Heading:         strings.TrimSpace(nodeText(findFirst(node, "h1"))),
		MetaDescription: findMetaDescription(node),
		Product:         findJSONLDProduct(node),
	}

	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var b strings.Builder
	if content != nil {
		collectText(&b, content, false)
	}
	info.Text = truncateRunes(normalizeWhitespace(b.String()), maxTextRunes)
	return info
}

// Render flattens the page info into the plain-text product description fed
// to the generation backend. Structured fields come first so they survive
// any downstream truncation.
func (p PageInfo) Render() string {
	var b strings.Builder
	write := func(label, val string) {
		if val != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, val)
		}
	}
	write("Page title", p.Title)
	write("Heading", p.Heading)
	write("Meta description", p.MetaDescription)
	if pr := p.Product; pr != nil {
		write("Product name", pr.Name)
		write("Product brand", pr.Brand)
		write("SKU", pr.SKU)
		write("GTIN", pr.GTIN)
		write("MPN", pr.MPN)
		if pr.Price != "" {
			write("Price", strings.TrimSpace(pr.Price+" "+pr.Currency))
		}
		write("Availability", pr.Availability)
		write("Product description", pr.Description)
	}
	if p.Text != "" {
		b.WriteString("\nPage text:\n")
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findMetaDescription(n *html.Node) string {
	var res string
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != "" {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, "meta") {
			if strings.EqualFold(attr(cur, "name"), "description") {
				res = strings.TrimSpace(attr(cur, "content"))
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return res
}

// findJSONLDProduct scans <script type="application/ld+json"> blocks for the
// first schema.org Product record, descending into @graph and top-level
// arrays.
func findJSONLDProduct(n *html.Node) *Product {
	var res *Product
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, "script") &&
			strings.EqualFold(attr(cur, "type"), "application/ld+json") && cur.FirstChild != nil {
			if p := parseJSONLD(cur.FirstChild.Data); p != nil {
				res = p
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return res
}

func parseJSONLD(raw string) *Product {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	return productFromValue(doc)
}

func productFromValue(v any) *Product {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if p := productFromValue(item); p != nil {
				return p
			}
		}
	case map[string]any:
		if typeIs(t["@type"], "Product") {
			return productFromMap(t)
		}
		if graph, ok := t["@graph"]; ok {
			return productFromValue(graph)
		}
	}
	return nil
}

func typeIs(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

func productFromMap(m map[string]any) *Product {
	p := &Product{
		Name:        jsonString(m["name"]),
		Description: jsonString(m["description"]),
		SKU:         jsonString(m["sku"]),
		MPN:         jsonString(m["mpn"]),
	}
	for _, key := range []string{"gtin13", "gtin14", "gtin12", "gtin8", "gtin"} {
		if p.GTIN = jsonString(m[key]); p.GTIN != "" {
			break
		}
	}
	// brand is either a plain string or a nested Brand object
	switch b := m["brand"].(type) {
	case string:
		p.Brand = b
	case map[string]any:
		p.Brand = jsonString(b["name"])
	}
	if offer := firstMap(m["offers"]); offer != nil {
		p.Price = jsonString(offer["price"])
		p.Currency = jsonString(offer["priceCurrency"])
		p.Availability = availabilityName(jsonString(offer["availability"]))
	}
	switch img := m["image"].(type) {
	case string:
		p.Images = []string{img}
	case []any:
		for _, item := range img {
			if s, ok := item.(string); ok {
				p.Images = append(p.Images, s)
			}
		}
	}
	return p
}

func firstMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// availabilityName strips the schema.org URL prefix, "https://schema.org/InStock"
// becomes "InStock".
func availabilityName(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func jsonString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%.2f", t), ".00")
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return collapseSpaces(strings.TrimSpace(b.String()))
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

func collectText(b *strings.Builder, n *html.Node, inPre bool) {
	if n.Type == html.ElementNode {
		if isBoilerplateContainer(n) {
			return
		}
		name := strings.ToLower(n.Data)
		switch name {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe":
			return
		case "pre", "code":
			inPre = true
		case "br", "hr":
			b.WriteString("\n")
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li":
			b.WriteString("\n")
		case "ul", "ol":
			b.WriteString("\n")
		}
	}

	if n.Type == html.TextNode {
		data := n.Data
		if !inPre {
			data = strings.ReplaceAll(data, "\t", " ")
			data = strings.ReplaceAll(data, "\r", " ")
		}
		b.WriteString(data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, inPre)
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n\n")
		case "li":
			b.WriteString("\n")
		case "pre", "code":
			b.WriteString("\n")
		}
	}
}

// isBoilerplateContainer reports whether the element looks like a
// cookie/consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if key != "id" && key != "class" && !strings.HasPrefix(key, "data-") && key != "aria-label" && key != "role" {
			continue
		}
		val := strings.ToLower(a.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			// Keep at most one consecutive blank
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, collapseSpaces(trimmed))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
