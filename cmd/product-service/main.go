// Command product-service serves the product catalog.
package main

import (
	apphttp "storefront/internal/http"
)

func main() {
	apphttp.Run("product-service", apphttp.MountProducts)
}
