package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

const viewsDir = "templates/views/"

// FuncMap 模板函数；mediaURL 依赖当前的存储后端
func FuncMap(storage services.Storage) template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"markdown":        utils.RenderMarkdown,
		"commentMarkdown": utils.RenderComment,
		"mediaURL":        storage.URL,
		"date": func(t time.Time) string {
			return t.Format("2 Jan 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2 Jan 2006 15:04")
		},
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// LoadTemplates 每个 view 与全部 layouts、includes 组合成一个模板，
// 以 views 下的相对路径注册，例如 posts/index.html
func LoadTemplates(fsys fs.FS, storage services.Storage) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := fs.Glob(fsys, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found")
	}

	includes, err := fs.Glob(fsys, "templates/includes/*.html")
	if err != nil {
		return nil, err
	}

	views, err := fs.Glob(fsys, viewsDir+"*/*.html")
	if err != nil {
		return nil, err
	}

	funcMap := FuncMap(storage)
	for _, view := range views {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)

		tmpl, err := template.New(path.Base(layouts[0])).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.Add(strings.TrimPrefix(view, viewsDir), tmpl)
	}

	return r, nil
}
