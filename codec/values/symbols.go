package values

// symbolTable is the closed set of canonical names for one symbolic type.
type symbolTable map[string]struct{}

func newSymbolTable[S ~string](names ...S) symbolTable {
	table := make(symbolTable, len(names))
	for _, name := range names {
		table[string(name)] = struct{}{}
	}

	return table
}

func (t symbolTable) set(dst *string, name string) bool {
	if _, ok := t[name]; !ok {
		return false
	}

	*dst = name

	return true
}

// Material is a block or item material.
type Material string

// Materials.
const (
	Air           Material = "AIR"
	Stone         Material = "STONE"
	Dirt          Material = "DIRT"
	GrassBlock    Material = "GRASS_BLOCK"
	Cobblestone   Material = "COBBLESTONE"
	OakLog        Material = "OAK_LOG"
	OakPlanks     Material = "OAK_PLANKS"
	Glass         Material = "GLASS"
	Sand          Material = "SAND"
	Gravel        Material = "GRAVEL"
	Obsidian      Material = "OBSIDIAN"
	Bedrock       Material = "BEDROCK"
	Chest         Material = "CHEST"
	TNT           Material = "TNT"
	Torch         Material = "TORCH"
	RedstoneTorch Material = "REDSTONE_TORCH"
	Redstone      Material = "REDSTONE"
	IronIngot     Material = "IRON_INGOT"
	GoldIngot     Material = "GOLD_INGOT"
	Diamond       Material = "DIAMOND"
	DiamondSword  Material = "DIAMOND_SWORD"
	Emerald       Material = "EMERALD"
	EnderPearl    Material = "ENDER_PEARL"
	Bread         Material = "BREAD"
)

//nolint:gochecknoglobals // read-only lookup table.
var materials = newSymbolTable(
	Air, Stone, Dirt, GrassBlock, Cobblestone, OakLog, OakPlanks, Glass, Sand, Gravel,
	Obsidian, Bedrock, Chest, TNT, Torch, RedstoneTorch, Redstone, IronIngot, GoldIngot,
	Diamond, DiamondSword, Emerald, EnderPearl, Bread,
)

// SymbolName implements codec.Symbolic.
func (m Material) SymbolName() string { return string(m) }

// SetSymbol implements codec.Symbolic.
func (m *Material) SetSymbol(name string) bool { return materials.set((*string)(m), name) }

// EntityType is a kind of entity.
type EntityType string

// Entity types.
const (
	Player        EntityType = "PLAYER"
	Zombie        EntityType = "ZOMBIE"
	Skeleton      EntityType = "SKELETON"
	Creeper       EntityType = "CREEPER"
	Spider        EntityType = "SPIDER"
	Enderman      EntityType = "ENDERMAN"
	Villager      EntityType = "VILLAGER"
	IronGolem     EntityType = "IRON_GOLEM"
	Cow           EntityType = "COW"
	Pig           EntityType = "PIG"
	Sheep         EntityType = "SHEEP"
	ArmorStand    EntityType = "ARMOR_STAND"
	DroppedItem   EntityType = "DROPPED_ITEM"
	ExperienceOrb EntityType = "EXPERIENCE_ORB"
)

//nolint:gochecknoglobals // read-only lookup table.
var entityTypes = newSymbolTable(
	Player, Zombie, Skeleton, Creeper, Spider, Enderman, Villager, IronGolem, Cow, Pig,
	Sheep, ArmorStand, DroppedItem, ExperienceOrb,
)

// SymbolName implements codec.Symbolic.
func (e EntityType) SymbolName() string { return string(e) }

// SetSymbol implements codec.Symbolic.
func (e *EntityType) SetSymbol(name string) bool { return entityTypes.set((*string)(e), name) }

// Effect is a visual or sound effect played in the world.
type Effect string

// Effects.
const (
	ClickSound       Effect = "CLICK1"
	BowFire          Effect = "BOW_FIRE"
	DoorToggle       Effect = "DOOR_TOGGLE"
	Extinguish       Effect = "EXTINGUISH"
	RecordPlay       Effect = "RECORD_PLAY"
	GhastShriek      Effect = "GHAST_SHRIEK"
	Smoke            Effect = "SMOKE"
	StepSound        Effect = "STEP_SOUND"
	PotionBreak      Effect = "POTION_BREAK"
	EnderSignal      Effect = "ENDER_SIGNAL"
	MobspawnerFlames Effect = "MOBSPAWNER_FLAMES"
)

//nolint:gochecknoglobals // read-only lookup table.
var effects = newSymbolTable(
	ClickSound, BowFire, DoorToggle, Extinguish, RecordPlay, GhastShriek, Smoke, StepSound,
	PotionBreak, EnderSignal, MobspawnerFlames,
)

// SymbolName implements codec.Symbolic.
func (e Effect) SymbolName() string { return string(e) }

// SetSymbol implements codec.Symbolic.
func (e *Effect) SetSymbol(name string) bool { return effects.set((*string)(e), name) }

// BlockFace is a side of a block.
type BlockFace string

// Block faces.
const (
	North BlockFace = "NORTH"
	East  BlockFace = "EAST"
	South BlockFace = "SOUTH"
	West  BlockFace = "WEST"
	Up    BlockFace = "UP"
	Down  BlockFace = "DOWN"
	Self  BlockFace = "SELF"
)

//nolint:gochecknoglobals // read-only lookup table.
var blockFaces = newSymbolTable(North, East, South, West, Up, Down, Self)

// SymbolName implements codec.Symbolic.
func (f BlockFace) SymbolName() string { return string(f) }

// SetSymbol implements codec.Symbolic.
func (f *BlockFace) SetSymbol(name string) bool { return blockFaces.set((*string)(f), name) }

// PotionEffectType is the kind of a PotionEffect.
type PotionEffectType string

// Potion effect types.
const (
	Speed           PotionEffectType = "SPEED"
	Slowness        PotionEffectType = "SLOWNESS"
	Haste           PotionEffectType = "HASTE"
	Strength        PotionEffectType = "STRENGTH"
	InstantHealth   PotionEffectType = "INSTANT_HEALTH"
	JumpBoost       PotionEffectType = "JUMP_BOOST"
	Regeneration    PotionEffectType = "REGENERATION"
	Resistance      PotionEffectType = "RESISTANCE"
	FireResistance  PotionEffectType = "FIRE_RESISTANCE"
	WaterBreathing  PotionEffectType = "WATER_BREATHING"
	Invisibility    PotionEffectType = "INVISIBILITY"
	NightVision     PotionEffectType = "NIGHT_VISION"
	Poison          PotionEffectType = "POISON"
	Glowing         PotionEffectType = "GLOWING"
)

//nolint:gochecknoglobals // read-only lookup table.
var potionEffectTypes = newSymbolTable(
	Speed, Slowness, Haste, Strength, InstantHealth, JumpBoost, Regeneration, Resistance,
	FireResistance, WaterBreathing, Invisibility, NightVision, Poison, Glowing,
)

// SymbolName implements codec.Symbolic.
func (p PotionEffectType) SymbolName() string { return string(p) }

// SetSymbol implements codec.Symbolic.
func (p *PotionEffectType) SetSymbol(name string) bool {
	return potionEffectTypes.set((*string)(p), name)
}
