package catalog

// defaultMappings is the built-in seed catalog of common UI patterns.
// It is consulted as the fallback tier after app schemas and is never
// mutated at runtime.
var defaultMappings = []ElementMapping{
	{
		Patterns: []string{"settings", "setting", "preferences", "config", "configuration", "options"},
		Selectors: []string{
			"[data-guidle='settings']",
			"#settings",
			"#settings-btn",
			"[aria-label*='settings' i]",
			"[aria-label*='Settings' i]",
			"a[href*='settings']",
			"button:has(svg[class*='gear'])",
			"[class*='settings']",
			"[class*='Settings']",
		},
		Description: "Settings and preferences",
		Category:    "settings",
	},
	{
		Patterns: []string{"profile", "account", "my account", "user", "my profile"},
		Selectors: []string{
			"[data-guidle='profile']",
			"#profile",
			"#profile-btn",
			"[aria-label*='profile' i]",
			"[aria-label*='account' i]",
			"a[href*='profile']",
			"a[href*='account']",
			"[class*='profile']",
			"[class*='avatar']",
		},
		Description: "User profile and account",
		Category:    "profile",
	},
	{
		Patterns: []string{"home", "dashboard", "main", "start"},
		Selectors: []string{
			"[data-guidle='home']",
			"#home",
			"a[href='/']",
			"a[href='/home']",
			"a[href='/dashboard']",
			"[aria-label*='home' i]",
			"[class*='home']",
			"[class*='dashboard']",
		},
		Description: "Home or dashboard",
		Category:    "navigation",
	},
	{
		Patterns: []string{"menu", "navigation", "nav", "sidebar"},
		Selectors: []string{
			"[data-guidle='menu']",
			"#menu",
			"nav",
			"[role='navigation']",
			"[class*='sidebar']",
			"[class*='nav']",
			"[aria-label*='menu' i]",
		},
		Description: "Navigation menu",
		Category:    "navigation",
	},
	{
		Patterns: []string{"search", "find", "lookup"},
		Selectors: []string{
			"[data-guidle='search']",
			"#search",
			"input[type='search']",
			"[aria-label*='search' i]",
			"[placeholder*='search' i]",
			"[class*='search']",
		},
		Description: "Search functionality",
		Category:    "search",
	},
	{
		Patterns: []string{"notifications", "alerts", "bell", "inbox"},
		Selectors: []string{
			"[data-guidle='notifications']",
			"#notifications",
			"[aria-label*='notification' i]",
			"[class*='notification']",
			"[class*='bell']",
			"[class*='inbox']",
		},
		Description: "Notifications",
		Category:    "notifications",
	},
	{
		Patterns: []string{"help", "support", "faq", "documentation", "docs"},
		Selectors: []string{
			"[data-guidle='help']",
			"#help",
			"[aria-label*='help' i]",
			"a[href*='help']",
			"a[href*='support']",
			"a[href*='docs']",
			"[class*='help']",
		},
		Description: "Help and support",
		Category:    "help",
	},
	{
		Patterns: []string{"logout", "log out", "sign out", "signout", "exit"},
		Selectors: []string{
			"[data-guidle='logout']",
			"#logout",
			"[aria-label*='logout' i]",
			"[aria-label*='sign out' i]",
			"a[href*='logout']",
			"button:contains('Logout')",
			"[class*='logout']",
		},
		Description: "Logout",
		Category:    "auth",
	},
	{
		Patterns: []string{"login", "log in", "sign in", "signin"},
		Selectors: []string{
			"[data-guidle='login']",
			"#login",
			"[aria-label*='login' i]",
			"[aria-label*='sign in' i]",
			"a[href*='login']",
			"[class*='login']",
		},
		Description: "Login",
		Category:    "auth",
	},
	{
		Patterns: []string{"name", "full name", "display name", "username"},
		Selectors: []string{
			"[data-guidle='name']",
			"#name",
			"#name-input",
			"input[name='name']",
			"input[name='fullName']",
			"input[name='displayName']",
			"input[placeholder*='name' i]",
		},
		Description: "Name input field",
		Category:    "form",
	},
	{
		Patterns: []string{"email", "email address"},
		Selectors: []string{
			"[data-guidle='email']",
			"#email",
			"input[type='email']",
			"input[name='email']",
			"input[placeholder*='email' i]",
		},
		Description: "Email input field",
		Category:    "form",
	},
	{
		Patterns: []string{"password", "passcode"},
		Selectors: []string{
			"[data-guidle='password']",
			"#password",
			"input[type='password']",
			"input[name='password']",
		},
		Description: "Password field",
		Category:    "form",
	},
	{
		Patterns: []string{"submit", "save", "confirm", "done", "apply"},
		Selectors: []string{
			"[data-guidle='submit']",
			"button[type='submit']",
			"input[type='submit']",
			"button:contains('Save')",
			"button:contains('Submit')",
			"button:contains('Confirm')",
			"[class*='submit']",
			"[class*='save']",
		},
		Description: "Submit/Save button",
		Category:    "action",
	},
	{
		Patterns: []string{"cancel", "close", "dismiss", "back"},
		Selectors: []string{
			"[data-guidle='cancel']",
			"button:contains('Cancel')",
			"button:contains('Close')",
			"[aria-label*='close' i]",
			"[class*='close']",
			"[class*='cancel']",
		},
		Description: "Cancel/Close button",
		Category:    "action",
	},
}

// Defaults returns the built-in catalog. Callers must treat the returned
// slice as read-only.
func Defaults() []ElementMapping {
	return defaultMappings
}
