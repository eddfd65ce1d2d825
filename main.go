package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"harvest/cmd/app"
)

// @title          Harvest Ministry Reports API
// @description    Role-based ministry activity reporting backend.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
