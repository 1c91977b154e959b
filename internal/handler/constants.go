package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteMarket is the item catalog route.
	RouteMarket = "/market"
	// RouteAccount is the account overview route.
	RouteAccount = "/account"
	// RouteClaim is the claim route pattern.
	RouteClaim = "/claim/{itemID}"
	// RouteUnclaim is the unclaim route pattern.
	RouteUnclaim = "/unclaim/{itemID}"
	// RouteUserUpdate is the manager user-edit route.
	RouteUserUpdate = "/user/update"
	// RouteItemAdd is the manager item-creation route.
	RouteItemAdd = "/item/add"
	// RouteItemEdit is the manager item-edit route pattern.
	RouteItemEdit = "/item/{itemID}/edit"
	// RouteItemDelete is the manager item-delete route pattern.
	RouteItemDelete = "/item/{itemID}/delete"
)
