package subscription

// Plan identifies a subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanStarter  Plan = "starter"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// tiers lists plans from lowest to highest; catalog validation relies on
// this ordering for the monotonicity check.
var tiers = []Plan{PlanFree, PlanStarter, PlanPro, PlanBusiness}

// Status is the closed set of subscription states stored locally. Provider
// status strings are normalized into this set at the reconciliation
// boundary; unrecognized values are never stored verbatim.
type Status string

const (
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
)

// NormalizeProviderStatus maps a billing provider's literal status string
// into the local closed enum. The second return is false for strings the
// mapping does not recognize; callers keep the previous stored status in
// that case rather than persisting free-form provider text.
func NormalizeProviderStatus(providerStatus string) (Status, bool) {
	switch providerStatus {
	case "active", "trialing":
		return StatusActive, true
	case "past_due", "unpaid", "incomplete":
		return StatusPastDue, true
	case "canceled", "incomplete_expired":
		return StatusCanceled, true
	default:
		return "", false
	}
}

// BillingCycle selects monthly or yearly pricing.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Resource represents a countable business resource type.
type Resource string

const (
	ResourceRecipes   Resource = "recipes"
	ResourceOrders    Resource = "orders"
	ResourceCustomers Resource = "customers"
	ResourceProducts  Resource = "products"
)

// Resources lists every countable resource type. Catalog validation requires
// each plan to define a limit for all of them.
var Resources = []Resource{ResourceRecipes, ResourceOrders, ResourceCustomers, ResourceProducts}

// Unlimited indicates no limit for a resource (-1 chosen for SQL compatibility).
const Unlimited int64 = -1

// Feature represents a plan-gated capability.
type Feature string

const (
	FeatureAI                Feature = "ai_features"
	FeatureAdvancedAnalytics Feature = "advanced_analytics"
	FeatureMultipleUsers     Feature = "multiple_users"
	FeaturePrioritySupport   Feature = "priority_support"
	FeatureAPIAccess         Feature = "api_access"
)

// UsageStat reports a single resource's consumption against its limit.
//
// Percentage is 0 for unlimited resources regardless of the current count;
// progress bars have nothing meaningful to show against an infinite limit
// and dividing by -1 produces garbage.
type UsageStat struct {
	Current    int64   `json:"current"`
	Limit      int64   `json:"limit"`
	Percentage float64 `json:"percentage"`
}

// NewUsageStat computes the stat for a current count against a limit.
func NewUsageStat(current, limit int64) UsageStat {
	stat := UsageStat{Current: current, Limit: limit}
	switch {
	case limit == Unlimited:
		stat.Percentage = 0
	case limit == 0:
		// A zero limit with any usage is fully consumed; avoids division by zero.
		if current > 0 {
			stat.Percentage = 100
		}
	default:
		stat.Percentage = float64(current) / float64(limit) * 100
	}
	return stat
}

// Usage holds per-resource stats for a business.
type Usage map[Resource]UsageStat

// Report is the full entitlement picture for a business: its plan, the
// plan's spec, and live usage per resource.
type Report struct {
	Plan         Plan
	Status       Status
	Spec         PlanSpec
	Usage        Usage
	Subscription *Subscription
}

// Admission is the admission gate's verdict for one prospective creation.
type Admission struct {
	Resource Resource
	Current  int64
	Limit    int64
	Allowed  bool
}
