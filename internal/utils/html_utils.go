package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// EnhanceHTMLContent 处理渲染后的正文：
// 图片懒加载、不带 referrer，外链新窗口打开且不传递权重
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if strings.TrimSpace(htmlStr) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		img.AddClass("md-image")
		img.SetAttr("loading", "lazy")
		img.SetAttr("referrerpolicy", "no-referrer")
	})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, _ := a.Attr("href"); isExternal(href) {
			a.SetAttr("target", "_blank")
			a.SetAttr("rel", "nofollow noopener noreferrer")
		}
	})

	// 片段会被补成完整文档，只取 body 里的内容
	out, err := doc.Find("body").Html()
	if err != nil || out == "" {
		out, _ = doc.Html()
	}
	return template.HTML(out)
}
