package categorize

// Default returns the built-in rule table. Merchant names skew Italian
// because that is where the supported institutions operate; projects with a
// different footprint override the table via rules/categorization-rules.yaml.
func Default() Rules {
	return Rules{
		{Category: "Spesa", Keywords: []string{
			"esselunga", "carrefour", "lidl", "coop", "conad", "iper", "supermercato",
			"market", "pam", "eurospin", "penny", "despar", "md discount", "aldi",
			"simply", "bennet", "todis", "tigre", "famila",
		}},
		{Category: "Ristorazione", Keywords: []string{
			"mcdonald", "burger king", "starbucks", "ristorante", "pizzeria", "bar ",
			"cafe", "caffè", "delivery", "glovo", "uber eats", "just eat", "deliveroo",
			"trattoria", "osteria", "sushi", "kebab", "panino",
		}},
		{Category: "Trasporti", Keywords: []string{
			"uber", "taxi", "trenitalia", "italo", "atm", "q8", "eni", "esso",
			"tamoil", "autostrade", "telepass", "ip ", "total", "shell", "flixbus",
			"ryanair", "easyjet", "alitalia", "itaairways", "benzina", "carburante",
			"diesel", "parcheggio", "parking", "car2go", "enjoy", "lime", "bird",
		}},
		{Category: "Abbonamenti", Keywords: []string{
			"netflix", "spotify", "apple.com", "google ", "amazon prime", "disney",
			"adobe", "chatgpt", "openai", "microsoft", "dazn", "tim", "vodafone",
			"wind", "fastweb", "iliad", "sky", "now tv", "crunchyroll", "youtube",
			"twitch", "icloud", "dropbox", "notion", "figma",
		}},
		{Category: "Shopping", Keywords: []string{
			"amazon", "zalando", "shein", "nike", "zara", "h&m", "ikea",
			"leroy merlin", "mediaworld", "unieuro", "decathlon", "primark",
			"ovs", "uniqlo", "asos", "ebay", "aliexpress", "wish",
		}},
		{Category: "Lavoro", Keywords: []string{
			"stipendio", "emolumenti", "bonifico a vostro favore", "salary", "payroll",
			"cedolino", "compenso", "accredito", "retribuzione", "freelance", "fattura",
		}},
		{Category: "Casa", Keywords: []string{
			"affitto", "condominio", "enel", "a2a", "iren", "edison", "bolletta",
			"luce", "gas", "acqua", "hera", "acea", "sorgenia", "eni gas", "mutuo",
		}},
		{Category: "Salute", Keywords: []string{
			"farmacia", "dottore", "medico", "ospedale", "dentista", "parafarmacia",
			"clinic", "sanitaria", "visita", "analisi", "laboratorio", "ottico",
		}},
		{Category: "Finanza", Keywords: []string{
			"paypal", "satispay", "revolut", "trade republic", "coinbase", "binance",
			"prelievo", "atm", "bancomat", "commissione", "interessi", "bollo",
		}},
		{Category: "Istruzione", Keywords: []string{
			"università", "universita", "scuola", "corso", "udemy", "coursera",
			"masterclass", "skillshare", "libri", "libreria", "feltrinelli", "mondadori",
		}},
	}
}
