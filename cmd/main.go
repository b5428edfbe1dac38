package main

import (
	"github.com/commerce-labs/placement/internal/app"
	"github.com/commerce-labs/placement/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
