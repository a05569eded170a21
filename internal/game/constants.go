package game

import "time"

const (
	WorldWidth  = 800.0
	WorldHeight = 600.0

	SpawnX = WorldWidth / 2
	SpawnY = WorldHeight / 2

	PlayerMaxHealth = 6

	// Chasers inside a player's light radius freeze: no movement, no fire.
	lightRadius = 128.0

	bulletHitRadius = 20.0
	bulletRange     = 400.0
	swordRadius     = 80.0

	damageCooldown     = time.Second
	chaserRespawnDelay = 2.0
	scoreInterval      = 10.0

	powerupChance = 0.001

	spawnMargin            = 100
	spawnMinCenterDistance = 200.0
	spawnMaxAttempts       = 50
)
