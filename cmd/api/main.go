package main

import (
	_ "github.com/SearchIntel/getmyhousevalue-backend/docs"
)

// @title GetMyHouseValue API
// @version 1.0
// @description Postcode search over HM Land Registry price-paid sales and EPC certificates.
// @BasePath /api
func main() {
	cfg := LoadConfiguration()

	app := NewApp(cfg)
	defer app.cleanup()

	app.InitializeServer()
	app.StartServer()
}
