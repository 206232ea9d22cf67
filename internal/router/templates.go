package router

import (
	"html/template"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
)

// LoadTemplates assembles every view with the shared layout and includes.
// Keys match the names handlers render with.
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files: layout + shared includes + the view itself
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Manual registration to ensure keys match handler expectation
	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/register.html", funcMap, assemble(templatesDir+"/views/auth/register.html")...)

	// Posts
	r.AddFromFilesFuncs("post/index.html", funcMap, assemble(templatesDir+"/views/post/index.html")...)
	r.AddFromFilesFuncs("post/show.html", funcMap, assemble(templatesDir+"/views/post/show.html")...)
	r.AddFromFilesFuncs("post/form.html", funcMap, assemble(templatesDir+"/views/post/form.html")...)

	// Static pages
	r.AddFromFilesFuncs("page/about.html", funcMap, assemble(templatesDir+"/views/page/about.html")...)
	r.AddFromFilesFuncs("page/contact.html", funcMap, assemble(templatesDir+"/views/page/contact.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
