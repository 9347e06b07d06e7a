package client

import "github.com/ardenlim/stockpoint/internal/core/domain"

// ResourceGroup is a navigable area of the application. Authorization
// decisions are made per group, never per individual screen.
type ResourceGroup string

const (
	GroupDashboard          ResourceGroup = "dashboard"
	GroupInventory          ResourceGroup = "inventory"
	GroupTransactions       ResourceGroup = "transactions"
	GroupStaffManagement    ResourceGroup = "staff-management"
	GroupCustomerManagement ResourceGroup = "customer-management"
	GroupCustomerDashboard  ResourceGroup = "customer-dashboard"
	GroupShop               ResourceGroup = "shop"
	GroupMyOrders           ResourceGroup = "my-orders"
)

// rolePolicy is the single declarative role table. Anything not listed
// here is denied; there are no role checks anywhere else in the SDK.
var rolePolicy = map[domain.Role][]ResourceGroup{
	domain.RoleStaff: {
		GroupDashboard,
		GroupInventory,
		GroupTransactions,
	},
	domain.RoleAdmin: {
		GroupDashboard,
		GroupInventory,
		GroupTransactions,
		GroupStaffManagement,
		GroupCustomerManagement,
	},
	domain.RoleCustomer: {
		GroupCustomerDashboard,
		GroupShop,
		GroupMyOrders,
	},
}

// Authorize reports whether role may reach group. Closed world: any
// unknown role or group is a deny.
func Authorize(role domain.Role, group ResourceGroup) bool {
	for _, g := range rolePolicy[role] {
		if g == group {
			return true
		}
	}
	return false
}

// Outcome is the result of resolving a navigation request against the
// current session. Login and Forbidden are distinct failure states: a
// missing session goes to the login entry point, a role mismatch goes
// to the forbidden page with the session left intact.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeLogin
	OutcomeForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeLogin:
		return "login"
	case OutcomeForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Resolve evaluates a navigation request. It reads the store on every
// call so a logout or re-login as a different role takes effect
// immediately; decisions are never cached.
func Resolve(store *SessionStore, group ResourceGroup) Outcome {
	sess := store.Current()
	if sess == nil {
		return OutcomeLogin
	}
	if !Authorize(sess.Identity.Role, group) {
		return OutcomeForbidden
	}
	return OutcomeAllow
}

// MenuItem describes one navigation entry: a label, the route it leads
// to, and the resource group that gates it.
type MenuItem struct {
	Label string
	Route string
	Group ResourceGroup
}

var allMenuItems = []MenuItem{
	{Label: "Dashboard", Route: "/dashboard", Group: GroupDashboard},
	{Label: "Inventory", Route: "/inventory", Group: GroupInventory},
	{Label: "Transactions", Route: "/transactions", Group: GroupTransactions},
	{Label: "Staff", Route: "/staff", Group: GroupStaffManagement},
	{Label: "Customers", Route: "/customers", Group: GroupCustomerManagement},
	{Label: "Home", Route: "/customer/dashboard", Group: GroupCustomerDashboard},
	{Label: "Shop", Route: "/shop", Group: GroupShop},
	{Label: "My Orders", Route: "/my-orders", Group: GroupMyOrders},
}

// MenuFor filters the menu descriptor list through the policy table.
func MenuFor(role domain.Role) []MenuItem {
	var items []MenuItem
	for _, item := range allMenuItems {
		if Authorize(role, item.Group) {
			items = append(items, item)
		}
	}
	return items
}

// Well-known routes outside any resource group.
const (
	RouteLogin        = "/login"
	RouteRegister     = "/register"
	RouteUnauthorized = "/unauthorized"
)

// routeTable maps protected routes onto their gating resource group.
var routeTable = map[string]ResourceGroup{
	"/dashboard":          GroupDashboard,
	"/inventory":          GroupInventory,
	"/transactions":       GroupTransactions,
	"/staff":              GroupStaffManagement,
	"/customers":          GroupCustomerManagement,
	"/customer/dashboard": GroupCustomerDashboard,
	"/shop":               GroupShop,
	"/my-orders":          GroupMyOrders,
}

// HomeRoute is the landing route for a role.
func HomeRoute(role domain.Role) string {
	if role == domain.RoleCustomer {
		return "/customer/dashboard"
	}
	return "/dashboard"
}

// ResolveRoute turns a requested path into the route to actually
// render. Unknown paths land on the role-appropriate home (or login
// when unauthenticated); denied paths land on the forbidden page.
func ResolveRoute(store *SessionStore, path string) string {
	group, known := routeTable[path]
	if !known {
		sess := store.Current()
		if sess == nil {
			return RouteLogin
		}
		return HomeRoute(sess.Identity.Role)
	}

	switch Resolve(store, group) {
	case OutcomeLogin:
		return RouteLogin
	case OutcomeForbidden:
		return RouteUnauthorized
	}
	return path
}
