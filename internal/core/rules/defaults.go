package rules

import "github.com/example/curator/internal/models"

// DefaultRules is the built-in sorting rule set, tuned for a wardrobe-heavy
// avatar inventory. Priorities run highest first; rules that share a
// priority are deliberately ordered so the earlier declaration wins.
// Installed by `curator rules seed` and replaceable with a rules file.
func DefaultRules() []models.Rule {
	kw := func(seq int, name string, priority int, target string, brandSub bool, keywords ...string) models.Rule {
		return models.Rule{
			Name:           name,
			Priority:       priority,
			Seq:            seq,
			MatcherKind:    models.MatcherKeywords,
			Keywords:       keywords,
			WholeWord:      true,
			TargetPath:     models.ParsePath(target),
			BrandSubfolder: brandSub,
		}
	}
	re := func(seq int, name string, priority int, target string, brandSub bool, pattern string) models.Rule {
		return models.Rule{
			Name:           name,
			Priority:       priority,
			Seq:            seq,
			MatcherKind:    models.MatcherPattern,
			Pattern:        pattern,
			TargetPath:     models.ParsePath(target),
			BrandSubfolder: brandSub,
		}
	}

	rules := []models.Rule{
		re(1, "Boxed Items", 100, "Boxed Items", false, `(Box|Add\s*Me|Rezz\s*Me|Unpack)`),
		re(2, "Demos", 90, "_Demos", false, `\bdemo\b`),
		kw(3, "BDSM Equipment", 89, "BDSM/Equipment", true,
			"hood", "armbinder", "gag", "muzzle", "blindfold",
			"cuff", "cuffs", "spreader", "straitjacket", "chastity",
			"restraint", "bondage", "padlock"),
		re(4, "KDC Equipment", 89, "BDSM/Equipment", true, `\bKDC\b`),
		// Slashes normalize to dashes before matching, so the brand reads CC-T&T here.
		re(5, "CC Chastity", 89, "BDSM/Equipment", true, `CC-T&T|Chastity Belt`),
		re(6, "NGW Equipment", 89, "BDSM/Equipment", true, `\bNGW\b`),
		kw(7, "BDSM Restraints", 88, "BDSM", true,
			"collar", "leash", "harness", "prisoner", "prison", "slave", "submissa"),
		re(8, "BDSM Brands", 87, "BDSM", true,
			`(\*HDM\*|\bHDM\b|Vixen|~?Silenced~?|RR&Co|Bad Bunny|OpenCollar|Realrestraint|Decima|Aphasia|SNUGGLIES|CryBunBun|LnB|BioDoll|Size:KaS|KaS\b)`),
		kw(9, "BDSM Animations", 87, "Animations/BDSM", false,
			"BDSM animations", "BDSM anim", "bondage animations"),
		kw(10, "Corsets", 87, "BDSM/Clothing/Corsets", true, "corset", "corsets"),
		kw(11, "BDSM Latex", 86, "BDSM", true,
			"latex catsuit", "rubber doll", "latex doll", "kink add-on",
			"open body", "polyform latex"),
		re(12, "Animation Overrides", 86, "Animation Overrides", false,
			`(\bAO\b|Animation Override|BENTO AO|BodyLanguage.*AO|AO.*Pack)`),
		kw(13, "Whips", 85, "Clothing/Accessories", false, "whip", "crop", "riding crop"),
		kw(14, "Dance Gestures", 85, "Gestures/Dances", false, "dance", "dancing", "dances"),
		kw(15, "Expression Gestures", 84, "Gestures/Expressions", false,
			"laugh", "cry", "smile", "wave", "clap", "cheer", "boo", "shrug"),
		re(16, "Mesh Heads", 82, "Body Parts/Heads", true,
			`((LeLUTKA|GENUS|Catwa|LAQ|Akeruka|Logo).*Head|Mesh Head)`),
		kw(17, "Hair", 78, "Body Parts/Hair", true,
			"Hair", "Hairstyle", "Magika", "Stealthic", "Doux",
			"Truth", "Sintiklia", "Wasabi", "Tableau Vivant", "KUNI"),
		kw(18, "Shoes", 75, "Clothing/Shoes", true,
			"Boots", "Heels", "Shoes", "Sneakers", "Sandals",
			"Flats", "Pumps", "Loafers", "Stilettos", "Cuban heel"),
		re(19, "Shoe Brands", 74, "Clothing/Shoes", true, `\berratic\b`),
		kw(20, "Hosiery", 71, "Clothing/Hosiery", true,
			"Pantyhose", "Stockings", "Tights", "Hosiery", "Nylons"),
		kw(21, "Clothing", 70, "Clothing", true,
			"Dress", "Gown", "Skirt", "Pants", "Shirt", "Top",
			"Sweater", "Lingerie", "Bikini", "Blouse", "Jacket",
			"Coat", "Jeans", "Shorts", "Leggings", "Thong", "Panties",
			"Bra", "Underwear", "Pantyhose", "Stockings", "Bodysuit",
			"Catsuit", "Suit"),
		re(22, "Mesh Bodies", 64, "Body Parts/Bodies", true,
			`(Lara\b|LaraX|Mesh Body|Reborn\b|Kupra|Perky|Freya|Isis|Venus|Hourglass|Physique|Legacy.*Body|eBody.*Reborn)`),
		kw(23, "Body Deformers", 63, "Body Parts/Bodies", false,
			"deformer", "fixer", "butt fixer", "flat ass", "morph",
			"kuromori", "Influence"),
		kw(24, "Skins", 62, "Body Parts/Skins", true,
			"Skin", "Skins", "Body Skin", "Head Skin", "BOM Skin"),
		re(25, "Skin Brands", 62, "Body Parts/Skins", true, `(VELOUR|Pepe Skins|Ipanema Body)`),
		kw(26, "Body Accessories", 61, "Body Parts/Accessories", false,
			"nipple rings", "nipple piercing", "piercing", "body jewelry", "belly ring"),
		kw(27, "Tattoos", 59, "Body Parts/Tattoos", false, "tattoo", "tattoos", "tat", "barcode"),
		kw(28, "Utility HUDs", 55, "Objects/Utilities", false,
			"Teleporter", "Auto Teleporter", "Pose Adjuster", "Resizer",
			"Animator", "Face Light", "AO HUD"),
		re(29, "Updaters", 54, "Objects/Updaters", false, `(Update folder|Updater|RR Update)`),
		re(30, "OMY Animations", 54, "Animations", false, `\bOMY\b`),
		kw(31, "Furniture", 50, "Objects/Furniture", true,
			"Chair", "Table", "Lamp", "Rug", "Furniture",
			"Sofa", "Bed", "Couch", "Desk", "Shelf", "Cabinet",
			"Cage", "Cross", "Rack", "Stocks", "Pillory", "Frame",
			"Dungeon", "Throne"),
		re(32, "Check Items", 40, "Objects/Check", false, `(Unpacker|unpack|rez to unpack|wear.*unpack)`),
	}

	// Generic body-part catch-all with wardrobe-style product subfolders.
	bodyParts := kw(33, "Body Parts", 60, "Body Parts", false,
		"Skin", "Shape", "Eyes", "Bento", "BOM", "Applier")
	bodyParts.SubfolderRules = []models.SubfolderRule{
		{Keywords: []string{"hud"}, Segment: "HUDs"},
		{Keywords: []string{"skin"}, Segment: "Skins"},
		{Keywords: []string{"shape"}, Segment: "Shapes"},
		{Keywords: []string{"eye"}, Exclude: []string{"eyeshadow"}, Segment: "Eyes"},
		{Keywords: []string{"applier", "tattoo"}, Segment: "Appliers"},
		{Keywords: []string{"makeup", "lipstick", "eyeshadow", "blush", "liner"}, Segment: "Makeup"},
	}
	rules = append(rules, bodyParts)

	return rules
}
