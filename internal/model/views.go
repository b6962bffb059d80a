package model

import "time"

// ArenaView is one row of the recent-arena listing, rebuilt on every fetch.
type ArenaView struct {
	ID            uint64 `json:"id"`
	Number        string `json:"number"`
	PlayersJoined uint32 `json:"players_joined"`
	MaxPlayers    uint32 `json:"max_players"`
	RoundSpeed    string `json:"round_speed"`
	Stake         string `json:"stake"`
	Status        string `json:"status"`
	IsFeatured    bool   `json:"is_featured"`
}

// GlobalStats is the network-wide rollup computed from a full pool scan.
type GlobalStats struct {
	NetworkLoad     string  `json:"network_load"`
	GlobalPoolTotal float64 `json:"global_pool_total"`
	LiveSurvivors   uint64  `json:"live_survivors"`
	TotalPools      uint64  `json:"total_pools"`
}

// ProfileArenaRow is a pool the user hosts or plays in that is still relevant.
type ProfileArenaRow struct {
	PoolID       uint64 `json:"pool_id"`
	Name         string `json:"name"`
	Stake        string `json:"stake"`
	Participants string `json:"participants"`
	Status       string `json:"status"`
}

// ProfileHistoryRow is a finished game in the user's participation history.
type ProfileHistoryRow struct {
	PoolID  uint64 `json:"pool_id"`
	Arena   string `json:"arena"`
	Stake   string `json:"stake"`
	Rounds  string `json:"rounds"`
	Result  string `json:"result"`
	PnL     string `json:"pnl"`
	Success bool   `json:"success"`
}

// Profile joins the per-user views: pools still in play and finished games.
type Profile struct {
	Arenas  []ProfileArenaRow   `json:"arenas"`
	History []ProfileHistoryRow `json:"history"`
}

// CreatorStatus reports a host's stake balance and open pool count.
type CreatorStatus struct {
	Stake          float64 `json:"stake"`
	ActivePools    uint64  `json:"active_pools"`
	HasEnoughStake bool    `json:"has_enough_stake"`
}

// StatsSample is one telemetry observation recorded by the watch loop.
type StatsSample struct {
	ObservedAt      time.Time `json:"observed_at"`
	TotalPools      uint64    `json:"total_pools"`
	LiveSurvivors   uint64    `json:"live_survivors"`
	GlobalPoolTotal float64   `json:"global_pool_total"`
	NetworkLoad     string    `json:"network_load"`
}
