package tui

import (
	"errors"

	"github.com/mealplanner/mealplanner/pkg/client"
)

// errorText turns a client error into the message shown under a form:
// the server's own message for API errors, a generic line otherwise.
func errorText(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	if client.IsTransport(err) {
		return "could not reach the MealPlanner server"
	}
	return "something went wrong"
}
