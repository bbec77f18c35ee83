package main

import "zapcrm/internal/app"

// @title           ZapCRM API
// @version         1.0
// @description     CRM de leads com pipeline kanban, importação CSV e conversas de WhatsApp.

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	app.Run()
}
