package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	// 帖子正文允许图片
	postPolicy = bluemonday.UGCPolicy()
	// 评论不允许图片和表格，只保留行内格式、链接和列表
	commentPolicy = bluemonday.NewPolicy()
)

func init() {
	postPolicy.AllowImages()
	postPolicy.RequireNoReferrerOnLinks(true)

	commentPolicy.AllowStandardURLs()
	commentPolicy.AllowAttrs("href").OnElements("a")
	commentPolicy.RequireNoReferrerOnLinks(true)
	commentPolicy.AllowElements("p", "br", "strong", "em", "del", "code", "pre", "blockquote", "ul", "ol", "li")
}

func render(source string, policy *bluemonday.Policy) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return EnhanceHTMLContent(string(policy.SanitizeBytes(buf.Bytes())))
}

// RenderMarkdown 渲染帖子正文，输出经过清洗
func RenderMarkdown(source string) template.HTML {
	return render(source, postPolicy)
}

// RenderComment renders comment text; images and raw HTML are dropped.
func RenderComment(source string) template.HTML {
	return render(source, commentPolicy)
}
