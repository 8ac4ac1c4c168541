// Command order-service places orders against product stock and reads them back.
package main

import (
	apphttp "storefront/internal/http"
)

func main() {
	apphttp.Run("order-service", apphttp.MountOrders)
}
