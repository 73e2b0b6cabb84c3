package league

import "github.com/ibelion/omniwiki/pkg/universe"

type Champion struct {
	ID           int      `json:"id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	SplashImage  string   `json:"splashImage"`
	Roles        []string `json:"roles"`
	Positions    []string `json:"positions"`
	Resource     string   `json:"resource"`
	RangeType    string   `json:"rangeType"`
	Regions      []string `json:"regions"`
	ReleaseYear  *float64 `json:"releaseYear"`
	ReleasePatch *string  `json:"releasePatch"`
	LastPatch    *string  `json:"lastPatch"`
	Difficulty   *float64 `json:"difficulty"`
	Tags         []string `json:"tags"`
	SourceURL    string   `json:"sourceUrl"`
}

// Ability is one champion spell. DescriptionText is Description with markup
// removed.
type Ability struct {
	ChampionID      int    `json:"championId"`
	ChampionName    string `json:"championName"`
	Slot            string `json:"slot"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DescriptionText string `json:"descriptionText"`
	Tooltip         string `json:"tooltip"`
	Cooldown        string `json:"cooldown"`
	Cost            string `json:"cost"`
	Range           string `json:"range"`
	Resource        string `json:"resource"`
	Image           string `json:"image"`
	ImageLarge      string `json:"imageLarge"`
	SourceURL       string `json:"sourceUrl"`
}

type Skin struct {
	ChampionID   int      `json:"championId"`
	ChampionName string   `json:"championName"`
	SkinID       int      `json:"skinId"`
	Name         string   `json:"name"`
	IsBase       bool     `json:"isBase"`
	Rarity       *string  `json:"rarity"`
	Cost         *float64 `json:"cost"`
	Availability *string  `json:"availability"`
	ReleaseDate  *string  `json:"releaseDate"`
	Splash       *string  `json:"splash"`
	Tile         *string  `json:"tile"`
	LoadScreen   *string  `json:"loadScreen"`
}

type Item struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Plaintext   *string            `json:"plaintext"`
	Description string             `json:"description"`
	GoldTotal   *float64           `json:"goldTotal"`
	GoldBase    *float64           `json:"goldBase"`
	GoldSell    *float64           `json:"goldSell"`
	Purchasable bool               `json:"purchasable"`
	Tags        []string           `json:"tags"`
	Stats       map[string]float64 `json:"stats"`
	Image       *string            `json:"image"`
	SourceURL   string             `json:"sourceUrl"`
}

type Rune struct {
	TreeID    int     `json:"treeId"`
	Slot      int     `json:"slot"`
	RuneID    int     `json:"runeId"`
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	ShortDesc string  `json:"shortDesc"`
	LongDesc  string  `json:"longDesc"`
	Icon      *string `json:"icon"`
}

type SummonerSpell struct {
	ID            string   `json:"id"`
	Key           int      `json:"key"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Cooldown      string   `json:"cooldown"`
	Modes         []string `json:"modes"`
	SummonerLevel *float64 `json:"summonerLevel"`
	Image         *string  `json:"image"`
}

type Lore struct {
	Champion    string  `json:"champion"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	ReleaseDate *string `json:"releaseDate"`
	Faction     *string `json:"faction"`
	LoreShort   *string `json:"loreShort"`
	LoreLong    *string `json:"loreLong"`
}

type Quote struct {
	Champion string  `json:"champion"`
	Text     string  `json:"text"`
	Category *string `json:"category"`
	Language *string `json:"language"`
	Audio    *string `json:"audio"`
}

type Chroma struct {
	Champion  string   `json:"champion"`
	SkinID    int      `json:"skinId"`
	SkinName  string   `json:"skinName"`
	ChromaID  int      `json:"chromaId"`
	Name      string   `json:"name"`
	Colors    []string `json:"colors"`
	Image     *string  `json:"image"`
	SourceURL *string  `json:"sourceUrl"`
}

type Emote struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	ChampionIDs []string `json:"championIds"`
	Image       *string  `json:"image"`
	SourceURL   *string  `json:"sourceUrl"`
}

type Faction struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type Map struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Image     *string `json:"image"`
	SourceURL *string `json:"sourceUrl"`
}

type Objective struct {
	Category      *string  `json:"category"`
	ObjectiveID   string   `json:"objectiveId"`
	Title         string   `json:"title"`
	ObjectiveType *string  `json:"objectiveType"`
	Tag           *string  `json:"tag"`
	Start         *float64 `json:"start"`
	End           *float64 `json:"end"`
}

type Queue struct {
	ID           int     `json:"id"`
	Map          string  `json:"map"`
	Description  *string `json:"description"`
	Notes        *string `json:"notes"`
	IsDeprecated bool    `json:"isDeprecated"`
}

type SummonerIcon struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Year      *float64 `json:"year"`
	IsLegacy  bool     `json:"isLegacy"`
	Image     *string  `json:"image"`
	SourceURL *string  `json:"sourceUrl"`
}

type WardSkin struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsLegacy    bool    `json:"isLegacy"`
	Image       *string `json:"image"`
	SourceURL   *string `json:"sourceUrl"`
}

type ChampionName struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Indexes struct {
	ChampionNames []ChampionName `json:"championNames"`
}

// Bundle is the complete League dataset written as bundle.json.
type Bundle struct {
	Meta           universe.Meta   `json:"meta"`
	Champions      []Champion      `json:"champions"`
	Abilities      []Ability       `json:"abilities"`
	Skins          []Skin          `json:"skins"`
	Items          []Item          `json:"items"`
	Runes          []Rune          `json:"runes"`
	SummonerSpells []SummonerSpell `json:"summonerSpells"`
	Lore           []Lore          `json:"lore"`
	Quotes         []Quote         `json:"quotes"`
	Chromas        []Chroma        `json:"chromas"`
	Emotes         []Emote         `json:"emotes"`
	Factions       []Faction       `json:"factions"`
	Maps           []Map           `json:"maps"`
	Objectives     []Objective     `json:"objectives"`
	Queues         []Queue         `json:"queues"`
	SummonerIcons  []SummonerIcon  `json:"summonerIcons"`
	WardSkins      []WardSkin      `json:"wardSkins"`
	Indexes        Indexes         `json:"indexes"`
}
