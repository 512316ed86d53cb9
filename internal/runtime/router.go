package runtime

import "github.com/nexustrade/orderflow/pkg/domain"

// next is the workflow's transition table: a pure function from the
// step just executed and the resulting envelope to the next step.
//
// The only conditional edge is the one leaving RouteQuery. The new-order
// branch is strictly sequential with no early exit; a step's error
// signal rides through untouched and is observed again only at
// ProcessOrderResult. The cancellation branch terminates directly: its
// loop manages its own iterations and appends its own result messages.
func next(current Step, env domain.Envelope) Step {
	switch current {
	case StepRoute:
		return route(env)
	case StepCheckInventory:
		return StepComputeShipping
	case StepComputeShipping:
		return StepProcessPayment
	case StepProcessPayment:
		return StepFinalize
	case StepCancelOrder:
		return StepEnd
	case StepFinalize:
		return StepEnd
	default:
		return StepEnd
	}
}

// route evaluates the conditional edge after categorization.
func route(env domain.Envelope) Step {
	if env.Err != nil {
		return StepFinalize
	}
	if env.Order == nil {
		return StepFinalize
	}
	switch env.Order.Category {
	case domain.CategoryNewOrder:
		return StepCheckInventory
	case domain.CategoryCancelOrder:
		return StepCancelOrder
	default:
		return StepFinalize
	}
}
