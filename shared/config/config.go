package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// Config armazena as configurações do TerraVision.
type Config struct {
	// Janela
	WindowWidth   int32  `json:"window_width"`
	WindowHeight  int32  `json:"window_height"`
	WindowTitle   string `json:"window_title"`
	WindowBackend string `json:"window_backend"` // "raylib" ou "glfw"
	TargetFPS     int32  `json:"target_fps"`

	// Servidor do mundo
	ServerURL string `json:"server_url"`

	// Assets
	AssetsDir  string `json:"assets_dir"`
	BlocksFile string `json:"blocks_file"`

	// Meshing
	MesherThreads        int     `json:"mesher_threads"`          // 0 = automático
	MaxSnapshotsPerFrame int     `json:"max_snapshots_per_frame"` // chunks copiados por frame
	ReprioritizeDistance float32 `json:"reprioritize_distance"`   // blocos andados antes de reordenar a fila

	// Renderização
	DrawDistance int32   `json:"draw_distance"` // em colunas
	FOV          float32 `json:"fov"`

	// Cache local de colunas (SQLite)
	CacheEnabled bool   `json:"cache_enabled"`
	CachePath    string `json:"cache_path"`

	// Posição inicial da câmera
	SpawnX float32 `json:"spawn_x"`
	SpawnY float32 `json:"spawn_y"`
	SpawnZ float32 `json:"spawn_z"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	WireframeMode bool `json:"wireframe_mode"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:   1280,
		WindowHeight:  720,
		WindowTitle:   "TerraVision",
		WindowBackend: "raylib",
		TargetFPS:     60,

		ServerURL: "ws://127.0.0.1:8080/ws",

		AssetsDir:  "assets",
		BlocksFile: "assets/blocks.json",

		MesherThreads:        0,
		MaxSnapshotsPerFrame: 64,
		ReprioritizeDistance: 32,

		DrawDistance: 8,
		FOV:          70.0,

		CacheEnabled: true,
		CachePath:    filepath.Join("saves", "world.tv"),

		SpawnX: 0,
		SpawnY: 80,
		SpawnZ: 0,

		ShowDebugInfo: true,
	}
}

// Workers retorna o número de workers de meshing: o configurado, limitado a
// NumCPU-1 (a thread de render precisa de um núcleo), nunca menos que 1.
func (c *Config) Workers() int {
	limit := runtime.NumCPU() - 1
	if limit < 1 {
		limit = 1
	}
	n := c.MesherThreads
	if n <= 0 || n > limit {
		n = limit
	}
	return n
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	return LoadFrom(configPath())
}

// LoadFrom é Load com caminho explícito.
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	if cfg.MaxSnapshotsPerFrame <= 0 {
		cfg.MaxSnapshotsPerFrame = 64
	}
	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

// SaveTo é Save com caminho explícito.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
