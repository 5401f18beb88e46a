package main

import "github.com/killallgit/audionote/cmd"

// @title           Audio Notes API
// @version         1.0.0
// @description     Voice notes with reminders: list, create, edit and delete notes, stream their recordings and manage reminder alarms
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/audionote
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
