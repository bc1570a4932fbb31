package main

import "github.com/go-vane/vane/core"

type HomeController struct {
	core.BaseController
}

func (c *HomeController) Index() (core.Result, error) {
	return core.View(map[string]interface{}{
		"Title": "Welcome to Vane!",
		"Intro": "A small controller-first MVC framework in Go.",
	}), nil
}

func (c *HomeController) Hello(name string) (core.Result, error) {
	if name == "" {
		name = "world"
	}
	return core.Text("Hello, " + name + "!"), nil
}

func init() {
	core.Registry.MustRegister("main", core.Descriptor{
		Name:    "HomeController",
		Factory: func() any { return &HomeController{} },
		Actions: []core.Action{
			{
				Name: "index",
				Func: func(c core.Controller, args []any) (core.Result, error) {
					return c.(*HomeController).Index()
				},
			},
			{
				Name:   "hello",
				Params: []core.Param{{Name: "name", Kind: core.ParamText}},
				Func: func(c core.Controller, args []any) (core.Result, error) {
					name, _ := args[0].(string)
					return c.(*HomeController).Hello(name)
				},
			},
		},
	})
}
