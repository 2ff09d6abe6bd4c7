package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"
	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

// feedSize 订阅源里的帖子数
const feedSize = 20

// sitemapLimit 限制 sitemap 中的帖子数量，避免文件过大
const sitemapLimit = 500

type SEOHandler struct {
	siteURL string
}

func NewSEOHandler(siteURL string) *SEOHandler {
	return &SEOHandler{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// RobotsTxt 返回 robots.txt
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 登录注册和写操作不需要被收录
Disallow: /auth/
Disallow: /create/
Disallow: /follow/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML 首页、全部分组和最近的帖子
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        h.siteURL + "/",
		LastMod:    time.Now().Format("2006-01-02"),
		ChangeFreq: "hourly",
		Priority:   "1.0",
	})

	var groups []models.Group
	if err := db.DB.Order("slug ASC").Find(&groups).Error; err != nil {
		RenderError(c, err)
		return
	}
	for _, g := range groups {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        fmt.Sprintf("%s/group/%s/", h.siteURL, g.Slug),
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}

	var posts []models.Post
	if err := db.DB.Order(models.PostOrdering).Limit(sitemapLimit).Find(&posts).Error; err != nil {
		RenderError(c, err)
		return
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:      fmt.Sprintf("%s/posts/%d/", h.siteURL, p.ID),
			LastMod:  p.PubDate.Format("2006-01-02"),
			Priority: "0.6",
		})
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml.Header+mustXML(set))
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// Feed RSS 2.0，最新的帖子在前，正文按 Markdown 渲染
func (h *SEOHandler) Feed(c *gin.Context) {
	var posts []models.Post
	if err := db.DB.Preload("Author").Preload("Group").
		Order(models.PostOrdering).Limit(feedSize).Find(&posts).Error; err != nil {
		RenderError(c, err)
		return
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         "Yatube",
			Link:          h.siteURL + "/",
			Description:   "Latest posts on Yatube",
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, p := range posts {
		link := fmt.Sprintf("%s/posts/%d/", h.siteURL, p.ID)
		item := rssItem{
			Title:       p.String(),
			Link:        link,
			Description: string(utils.RenderMarkdown(p.Text)),
			PubDate:     p.PubDate.Format(time.RFC1123Z),
			GUID:        link,
		}
		if p.Author != nil {
			item.Author = p.Author.Username
		}
		if p.Group != nil {
			item.Category = p.Group.Title
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, xml.Header+mustXML(doc))
}

func mustXML(v interface{}) string {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(out)
}
