package crate

// DefaultAllowList names the items the game is willing to put in a
// crate. Everything else in the bot's inventory (event rewards,
// one-off trinkets) stays out of the pool even when tradable.
var DefaultAllowList = []string{
	"Acorn", "Aluminum", "Aluminum Ore", "Anvil", "Apple", "Axe", "Banana",
	"Banana Bread", "Bone", "Bone Dust", "Bonsai", "Bowl", "Bread", "Brick",
	"Butter", "Cake", "Carrot", "Carrot Cake", "Cat Hat", "Cement", "Cheese",
	"Chisel", "Churn", "Clam", "Clay", "Cloth", "Coal", "Coal Dust", "Coconut",
	"Cool Shoes", "Cotton", "Crab", "Diamond", "Diamond Dust", "Diamond Ring",
	"Egg", "Emerald", "Emerald Dust", "Emerald Ring", "Fancy Pants",
	"Fashionable Shirt", "File", "Firewood", "Fish", "Fish Hat", "Fishhook",
	"Fishing Rod", "Flax", "Flour", "Fruit Salad", "Furnace", "Glass", "Glue",
	"Gold", "Gold Ore", "Gold Wire", "Grapes", "Grass Seeds", "Hairball",
	"Hammer", "Hat", "Iron", "Iron Ore", "Iron Wire", "Kiwi", "Knife",
	"Knitting Needles", "Koder Koin", "Ladder", "Limestone", "Log", "Loom",
	"Lumber", "Mandrel", "Milk", "Mushroom", "Needle", "Onion", "Orange",
	"Pants", "Pickaxe", "Pot", "Potato", "Pottery Wheel", "Range",
	"Raw Diamond", "Raw Emerald", "Raw Ruby", "Raw Sapphire", "Raw Tanzanite",
	"Rice", "Rock", "Rolling Mill", "Rope", "Ruby", "Ruby Dust", "Ruby Ring",
	"Salt", "Sand", "Sapphire", "Sapphire Dust", "Sapphire Ring", "Saw",
	"Scythe", "Shears", "Shirt", "Shoes", "Shovel", "Shurt", "Socks",
	"Spinning Wheel", "Stew", "Stick", "Stone Mill", "String", "Sugar",
	"Sugarcane", "Tanzanite", "Tanzanite Dust", "Tanzanite Ring", "Thread",
	"Top Hat", "Trowel", "Vessel", "Water", "Wheat", "Wheat Seeds", "Wheel",
	"Wool", "Yarn", "gp",
}

// AllowSet turns an allow-list into the lookup set Generator takes.
func AllowSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, name := range items {
		set[name] = true
	}
	return set
}
