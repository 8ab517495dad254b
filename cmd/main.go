package main

import (
	"github.com/gin-gonic/gin"

	"CourseCanvas/internal/app"
	"CourseCanvas/internal/config"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
