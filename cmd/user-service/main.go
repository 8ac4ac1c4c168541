// Command user-service registers users, checks credentials and issues session tokens.
package main

import (
	apphttp "storefront/internal/http"
)

func main() {
	apphttp.Run("user-service", apphttp.MountUsers)
}
