package registry

// Built-in Swiss topic configurations. The guidance blocks feed directly into
// the classification prompt and carry the Swiss-specific vocabulary the model
// is asked to weigh.
var defaultTopics = []TopicConfig{
	{
		ID:          "immigration-integration",
		DisplayName: "Immigration & Integration",
		Keywords: map[string][]string{
			"de": {"immigration", "integration", "ausländer", "migration", "asyl", "flüchtling", "einbürgerung", "svp", "fremdenfeindlichkeit", "zuwanderung"},
			"fr": {"immigration", "intégration", "étranger", "migration", "asile", "réfugié", "naturalisation"},
			"it": {"immigrazione", "integrazione", "straniero", "migrazione", "asilo", "rifugiato", "naturalizzazione"},
		},
		SideA:       "restrictive",
		SideADesc:   "Favors tighter immigration controls, security concerns",
		SideB:       "liberal",
		SideBDesc:   "Favors open immigration, integration support",
		NeutralDesc: "Balanced presentation of immigration issues",
		Guidance: `1. PERSPECTIVE BALANCE:
   - Are immigrant/refugee voices included alongside Swiss citizens?
   - How are political parties (SVP, SP, FDP) represented?
   - Balance between security concerns vs humanitarian aspects?

2. LANGUAGE CHOICES:
   - "Asylsuchende" vs "Asylanten" vs "Flüchtlinge"
   - "Ausländerkriminalität" vs "Kriminalität"
   - "Überfremdung" vs "Vielfalt" vs "Integration"
   - "Wirtschaftsflüchtlinge" vs "Migranten"

3. STATISTICAL FRAMING:
   - Are immigration statistics contextualized properly?
   - Focus on crime statistics vs economic contributions?
   - Cherry-picking data to support a narrative?

4. POLITICAL CONTEXT:
   - How are SVP positions presented vs other parties?
   - Balance between nationalist and internationalist viewpoints?
   - Discussion of Swiss humanitarian tradition?`,
	},
	{
		ID:          "eu-relations",
		DisplayName: "EU Relations & Bilateral Agreements",
		Keywords: map[string][]string{
			"de": {"eu", "europa", "bilaterale", "rahmenabkommen", "personenfreizügigkeit", "brexit", "europapolitik", "neutralität"},
			"fr": {"ue", "europe", "bilatéral", "accord-cadre", "libre-circulation", "neutralité"},
			"it": {"ue", "europa", "bilaterale", "accordo-quadro", "libera-circolazione", "neutralità"},
		},
		SideA:       "pro_eu",
		SideADesc:   "Favors closer EU integration, bilateral agreements",
		SideB:       "eu_skeptical",
		SideBDesc:   "Emphasizes sovereignty, independence from EU",
		NeutralDesc: "Balanced analysis of EU relations",
		Guidance: `1. PERSPECTIVE BALANCE:
   - Pro-EU vs EU-skeptical viewpoints represented?
   - Business interests vs sovereignty concerns?
   - Urban vs rural perspectives on EU integration?

2. LANGUAGE CHOICES:
   - "Rahmenabkommen" vs "Unterwerfung" vs "Partnerschaft"
   - "Souveränität" vs "Isolation"
   - "Bilaterale Verträge" vs "Rosinenpickerei"
   - "Personenfreizügigkeit" vs "Masseneinwanderung"

3. ECONOMIC FRAMING:
   - Focus on benefits vs costs of EU relationship?
   - Swiss banking/finance interests represented?
   - Impact on different economic sectors?

4. POLITICAL CONTEXT:
   - How are different party positions presented?
   - Swiss neutrality and independence emphasized?
   - Historical context of Swiss-EU relations?`,
	},
	{
		ID:          "climate-energy",
		DisplayName: "Climate & Energy Policy",
		Keywords: map[string][]string{
			"de": {"klima", "energie", "co2", "klimawandel", "energiewende", "atomausstieg", "erneuerbare", "wasserkraft", "solar"},
			"fr": {"climat", "énergie", "changement-climatique", "transition-énergétique", "renouvelable", "hydraulique", "solaire"},
			"it": {"clima", "energia", "cambiamento-climatico", "transizione", "energetica", "rinnovabile", "idroelettrico", "solare", "svizzera"},
		},
		SideA:       "green_progressive",
		SideADesc:   "Favors aggressive climate action, renewable energy",
		SideB:       "conservative_business",
		SideBDesc:   "Emphasizes economic costs, business concerns",
		NeutralDesc: "Balanced analysis of climate/energy trade-offs",
		Guidance: `1. PERSPECTIVE BALANCE:
   - Environmental groups vs business interests represented?
   - Rural vs urban energy perspectives?
   - Different cantonal approaches discussed?

2. LANGUAGE CHOICES:
   - "Klimawandel" vs "Klimahysterie" vs "Klimakrise"
   - "Energiewende" vs "Energiechaos" vs "Energieumbau"
   - "Erneuerbare Energien" vs "ineffiziente Technologien"
   - "CO2-Steuer" vs "Energieabgabe"

3. SCIENTIFIC FRAMING:
   - Are climate science facts presented accurately?
   - Economic costs vs environmental benefits balanced?
   - Swiss Alpine/hydroelectric context considered?

4. POLITICAL CONTEXT:
   - Green Party vs SVP/FDP positions on energy?
   - Federal vs cantonal energy competencies?
   - Swiss energy independence considerations?`,
	},
	{
		ID:          "swiss-politics",
		DisplayName: "Swiss Politics & Elections",
		Keywords: map[string][]string{
			"de": {"bundesrat", "wahlen", "abstimmung", "svp", "sp", "fdp", "cvp", "grüne", "parlament", "bundesversammlung"},
			"fr": {"conseil-fédéral", "élections", "votation", "udc", "ps", "plr", "pdc", "verts", "parlement"},
			"it": {"consiglio-federale", "elezioni", "votazione", "udc", "ps", "plr", "pdc", "verdi", "parlamento"},
			"en": {"federal-council", "elections", "referendum", "swiss-people-party", "social-democratic", "parliament", "politics", "voting"},
		},
		SideA:       "left_center",
		SideADesc:   "Favors SP, Greens, social democratic policies",
		SideB:       "right_center",
		SideBDesc:   "Favors SVP, FDP, conservative/liberal policies",
		NeutralDesc: "Balanced coverage of Swiss political spectrum",
		Guidance: `1. PARTY REPRESENTATION:
   - Are all major parties (SVP, SP, FDP, Mitte, Grüne) fairly represented?
   - Government vs opposition balance?
   - Federal vs cantonal political perspectives?

2. LANGUAGE CHOICES:
   - Neutral political terminology vs loaded language?
   - "Populismus" vs "Bürgernähe"
   - "Kompromiss" vs "Verwässerung" vs "Ausgleich"
   - "Mitte-Politik" vs "Stillstand"

3. ELECTORAL FRAMING:
   - Urban vs rural voting patterns contextualized?
   - Swiss direct democracy (referendums) properly explained?
   - Historical voting trends vs current shifts?

4. INSTITUTIONAL CONTEXT:
   - Swiss consensus democracy principles respected?
   - Federal Council's collegial system explained?
   - Cantonal diversity and federalism considered?`,
	},
}

// Built-in Swiss news sources across the three language regions.
var defaultSources = []SourceConfig{
	{
		ID:       "tagesanzeiger",
		Name:     "Tages-Anzeiger",
		Language: "de",
		Region:   "zurich",
		Feeds: []string{
			"https://www.tagesanzeiger.ch/rss.html",
			"https://www.tagesanzeiger.ch/schweiz/rss.html",
		},
		ScrapeURLs: []string{"https://www.tagesanzeiger.ch/schweiz"},
		KnownBias:  "center_left",
	},
	{
		ID:       "nzz",
		Name:     "Neue Zürcher Zeitung",
		Language: "de",
		Region:   "zurich",
		Feeds: []string{
			"https://www.nzz.ch/recent.rss",
			"https://www.nzz.ch/schweiz.rss",
		},
		ScrapeURLs: []string{"https://www.nzz.ch/schweiz"},
		KnownBias:  "center_right",
	},
	{
		ID:       "srf",
		Name:     "SRF (Schweizer Radio und Fernsehen)",
		Language: "de",
		Region:   "national",
		Feeds: []string{
			"https://www.srf.ch/news/bnf/rss/1646",
			"https://www.srf.ch/news/bnf/rss/1890",
		},
		ScrapeURLs: []string{"https://www.srf.ch/news/schweiz"},
		KnownBias:  "center",
	},
	{
		ID:         "lematin",
		Name:       "Le Matin",
		Language:   "fr",
		Region:     "romandy",
		Feeds:      []string{"https://www.lematin.ch/rss"},
		ScrapeURLs: []string{"https://www.lematin.ch/suisse"},
		KnownBias:  "center_left",
	},
	{
		ID:         "letemps",
		Name:       "Le Temps",
		Language:   "fr",
		Region:     "romandy",
		Feeds:      []string{"https://www.letemps.ch/rss"},
		ScrapeURLs: []string{"https://www.letemps.ch/suisse"},
		KnownBias:  "center",
	},
	{
		ID:         "rts",
		Name:       "RTS (Radio Télévision Suisse)",
		Language:   "fr",
		Region:     "romandy",
		Feeds:      []string{"https://www.rts.ch/info/rss/info-rss.xml"},
		ScrapeURLs: []string{"https://www.rts.ch/info/suisse/"},
		KnownBias:  "center",
	},
	{
		ID:         "corriere",
		Name:       "Corriere del Ticino",
		Language:   "it",
		Region:     "ticino",
		Feeds:      []string{"https://www.cdt.ch/rss"},
		ScrapeURLs: []string{"https://www.cdt.ch/svizzera"},
		KnownBias:  "center",
	},
	{
		ID:         "rsi",
		Name:       "RSI (Radiotelevisione Svizzera)",
		Language:   "it",
		Region:     "ticino",
		Feeds:      []string{"https://www.rsi.ch/rss/notizie.xml"},
		ScrapeURLs: []string{"https://www.rsi.ch/news/svizzera"},
		KnownBias:  "center",
	},
	{
		ID:         "swissinfo",
		Name:       "SWI swissinfo.ch",
		Language:   "en",
		Region:     "national",
		Feeds:      []string{"https://www.swissinfo.ch/eng/rss"},
		ScrapeURLs: []string{"https://www.swissinfo.ch/eng"},
		KnownBias:  "center",
	},
}
