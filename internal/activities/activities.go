package activities

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	pkgtemporal "github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/temporal"
)

// Register registers the shipping activities under their stable names
func Register(w worker.ActivityRegistry, shipping *ShippingActivities) {
	w.RegisterActivityWithOptions(shipping.CalculateShippingQuote, activity.RegisterOptions{
		Name: pkgtemporal.ActivityNames.CalculateShippingQuote,
	})
}
