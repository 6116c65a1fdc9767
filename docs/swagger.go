package docs

import "github.com/swaggo/swag"

// @title           Taskbot API
// @version         1.0
// @description     Task-tracking backend consumed by the chat-gateway bot: tasks, assignments, statuses, due dates, roles.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the gateway token

// @tag.name Tasks
// @tag.description Task creation, listing, mutation, overview, reminders

// @tag.name Users
// @tag.description Bulk import and role management

// Register swagger info
func SwaggerInfo() string {
	return swag.Name
}
