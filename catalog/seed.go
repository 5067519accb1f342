package catalog

// Seed returns the platform's launch content: the standard earn tasks and
// the gift-card/subscription shop.
func Seed() *Static {
	return NewStatic(SeedTasks(), SeedItems())
}

func SeedTasks() []Task {
	return []Task{
		{ID: "watch-video-ad", Title: "Watch 30s Video Ad", Description: "Watch a short advertisement", Type: TaskVideo, Reward: 10, Active: true},
		{ID: "install-partner-app", Title: "Install Partner App", Description: "Download and open our partner app", Type: TaskCPA, Reward: 500, RequiresVerification: true, Active: true},
		{ID: "complete-survey", Title: "Complete Survey", Description: "Share your opinion in 5 minutes", Type: TaskSurvey, Reward: 50, Active: true},
		{ID: "newsletter-signup", Title: "Sign up for Newsletter", Description: "Subscribe to partner newsletter", Type: TaskCPA, Reward: 100, RequiresVerification: true, Active: true},
		{ID: "watch-premium-ad", Title: "Watch Premium Ad", Description: "Watch 60-second premium content", Type: TaskVideo, Reward: 20, Active: true},
		{ID: "install-game-app", Title: "Install Game App", Description: "Install and reach level 5", Type: TaskCPA, Reward: 1000, RequiresVerification: true, Active: true},
		{ID: "quick-poll", Title: "Quick Poll", Description: "3-question quick poll", Type: TaskSurvey, Reward: 25, Active: true},
		{ID: "trial-signup", Title: "Trial Signup", Description: "Sign up for free trial (no CC)", Type: TaskCPA, Reward: 750, RequiresVerification: true, Active: true},
	}
}

func SeedItems() []Item {
	return []Item{
		{ID: "amazon-5", Title: "$5 Amazon Gift Card", Description: "Instant digital delivery", Price: 1250, Category: "Gift Cards", ImageURL: "https://images.unsplash.com/photo-1523474253046-8cd2748b5fd2?w=400", Stock: -1, Active: true},
		{ID: "amazon-10", Title: "$10 Amazon Gift Card", Description: "Instant digital delivery", Price: 2500, Category: "Gift Cards", ImageURL: "https://images.unsplash.com/photo-1523474253046-8cd2748b5fd2?w=400", Stock: -1, Active: true},
		{ID: "starbucks-5", Title: "$5 Starbucks eGift", Description: "Coffee on us!", Price: 1250, Category: "Gift Cards", ImageURL: "https://images.unsplash.com/photo-1511920170033-f8396924c348?w=400", Stock: -1, Active: true},
		{ID: "itunes-10", Title: "$10 iTunes Card", Description: "Music, apps, and more", Price: 2500, Category: "Gift Cards", ImageURL: "https://images.unsplash.com/photo-1611162617213-7d7a39e9b1d7?w=400", Stock: -1, Active: true},
		{ID: "netflix-1mo", Title: "Netflix 1 Month", Description: "Stream unlimited movies", Price: 2500, Category: "Subscriptions", ImageURL: "https://images.unsplash.com/photo-1574375927938-d5a98e8ffe85?w=400", Stock: -1, Active: true},
		{ID: "spotify-1mo", Title: "Spotify Premium 1 Month", Description: "30 days ad-free music", Price: 2000, Category: "Subscriptions", ImageURL: "https://images.unsplash.com/photo-1614680376593-902f74cf0d41?w=400", Stock: -1, Active: true},
		{ID: "visa-25", Title: "$25 Visa Gift Card", Description: "Use anywhere Visa is accepted", Price: 6250, Category: "Gift Cards", ImageURL: "https://images.unsplash.com/photo-1563013544-824ae1b704d3?w=400", Stock: -1, Active: true},
		{ID: "xbox-gamepass-1mo", Title: "Xbox Game Pass 1 Month", Description: "Access 100+ games", Price: 2500, Category: "Gaming", ImageURL: "https://images.unsplash.com/photo-1622297845775-5ff3fef71d13?w=400", Stock: -1, Active: true},
	}
}
