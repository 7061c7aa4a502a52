package config

// url fragments that mark article pages on danish news and finance sites
var defaultArticlePatterns = []string{
	"/artikel/", "/article/", "/nyhed/", "/news/",
	"/penge/", "/erhverv/", "/indland/", "/udland/",
	"/blog/", "/post/", "/entry/", "/story/",
	"/analyse/", "/kommentar/", "/debat/",
	"/privatøkonomi/", "/privatoekonomi/", "/oekonomi/",
	"/forbrug/", "/forbrugogliv/", "/investor/", "/artikler/", "/indlæg/",
	"/januar/", "/februar/", "/marts/", "/april/", "/maj/", "/juni/",
	"/juli/", "/august/", "/september/", "/oktober/", "/november/", "/december/",
}

// url fragments that are never articles
var defaultExcludePatterns = []string{
	"/search", "/søg", "/login", "/log-ind", "/admin",
	"/category", "/kategori", "/tag", "/arkiv",
	"/rss", "/feed", "/sitemap", "/robots.txt",
	"/events", "/shop", "/priser", "/kontakt", "/foredrag", "/coaching", "/presse",
	"/faq", "/handelsbetingelser", "/gdpr", "/store/",
	"/om-medlemsklubben", "/book-coaching", "/mine-medlemssider",
	".jpg", ".jpeg", ".png", ".gif", ".pdf", ".doc",
}

// DefaultSources returns the built-in list of harvested sites
func DefaultSources() []SourceConfig {
	newsSelectors := []string{"article", ".article", ".news-item", ".teaser", ".teaser-list-item", ".teaser__link"}
	blogSelectors := []string{"article", ".post", ".blog-post", ".entry", ".blog-entry", "a[href*=\"/blog/\"]"}

	return []SourceConfig{
		{
			Name:          "dr.dk",
			BaseURL:       "https://www.dr.dk",
			SeedPages:     []string{"https://www.dr.dk/nyheder/penge", "https://www.dr.dk/nyheder/erhverv", "https://www.dr.dk/nyheder/indland"},
			LinkSelectors: newsSelectors,
		},
		{
			Name:          "tv2.dk",
			BaseURL:       "https://nyheder.tv2.dk",
			SeedPages:     []string{"https://nyheder.tv2.dk/penge", "https://nyheder.tv2.dk/erhverv", "https://nyheder.tv2.dk/indland"},
			LinkSelectors: newsSelectors,
		},
		{
			Name:          "finans.dk",
			BaseURL:       "https://finans.dk",
			SeedPages:     []string{"https://finans.dk/privatoekonomi", "https://finans.dk/penge", "https://finans.dk/forbrug"},
			LinkSelectors: append(newsSelectors, ".news-teaser", ".article-teaser", ".post"),
		},
		{
			Name:          "bolius.dk",
			BaseURL:       "https://bolius.dk",
			SeedPages:     []string{"https://bolius.dk", "https://bolius.dk/forbrug", "https://bolius.dk/nyheder"},
			LinkSelectors: append(newsSelectors, ".post", ".blog-post"),
		},
		{
			Name:          "moneymum.dk",
			BaseURL:       "https://moneymum.dk",
			SeedPages:     []string{"https://moneymum.dk", "https://moneymum.dk/vidensbank"},
			LinkSelectors: blogSelectors,
			Feeds:         []string{"https://moneymum.dk/feed"},
		},
		{
			Name:          "pengepugeren.dk",
			BaseURL:       "https://pengepugeren.dk",
			SeedPages:     []string{"https://pengepugeren.dk", "https://pengepugeren.dk/blog", "https://pengepugeren.dk/artikler"},
			LinkSelectors: blogSelectors,
			Feeds:         []string{"https://pengepugeren.dk/feed"},
		},
		{
			Name:      "moneypennyandmore.dk",
			BaseURL:   "https://moneypennyandmore.dk",
			SeedPages: []string{"https://moneypennyandmore.dk/blog", "https://moneypennyandmore.dk/artikler", "https://moneypennyandmore.dk"},
			LinkSelectors: []string{
				"article", ".blog-post", ".post", ".entry", ".blog-item", ".post-item",
				"a[href*=\"/blog/\"]", "a[href*=\"/artikler/\"]", "a[class*=\"blog\"]", "a[class*=\"post\"]",
			},
			Sitemaps: []string{"https://moneypennyandmore.dk/sitemap.xml"},
			// blog pages are short and partly english, kept regardless of the usual gates
			Overrides: SourceOverrides{SkipLengthGate: true, SkipLanguageGate: true, SkipRelevanceGate: true, ScoreFloor: 8},
		},
		{
			Name:          "budgetnoerden.dk",
			BaseURL:       "https://www.budgetnoerden.dk",
			SeedPages:     []string{"https://www.budgetnoerden.dk/blog"},
			LinkSelectors: blogSelectors,
			Feeds:         []string{"https://www.budgetnoerden.dk/feed", "https://www.budgetnoerden.dk/blog?format=rss"},
			Sitemaps:      []string{"https://www.budgetnoerden.dk/sitemap.xml"},
			KnownURLs: []string{
				"https://www.budgetnoerden.dk/blog/zero-based-budget",
				"https://www.budgetnoerden.dk/blog/nr-penge-skaber-afstand-i-parforholdet",
			},
		},
	}
}
