package app

import (
	"fmt"
	"log"
	"os"
	"sync"

	"TerraVision/cliente/internal/assets"
	"TerraVision/cliente/internal/camera"
	"TerraVision/cliente/internal/client"
	"TerraVision/cliente/internal/meshing"
	"TerraVision/cliente/internal/render"
	"TerraVision/shared/block"
	"TerraVision/shared/config"
	"TerraVision/shared/util"
	"TerraVision/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// App é a aplicação principal do TerraVision.
type App struct {
	Config  *config.Config
	Offline bool

	window Window
	Cam    *camera.CameraController

	store     *world.Store
	blocks    *block.Registry
	assets    *assets.Cache
	generator *render.Generator
	renderer  *render.Renderer
	feed      *client.Feed
	cache     *world.ColumnCache

	frameCount   int
	lastAutoSave float64
	lastRegion   util.ColumnCoord
	hasRegion    bool

	frameStats render.FrameStats
	drawStats  render.DrawStats

	statusMu sync.Mutex
	status   string
}

// New cria a aplicação. Nada é inicializado antes de Run.
func New(cfg *config.Config, offline bool) *App {
	return &App{
		Config:  cfg,
		Offline: offline,
		status:  "Iniciando...",
	}
}

// Run abre a janela, monta o pipeline e roda o loop principal até a janela
// fechar. Precisa ser chamado na thread principal.
func (a *App) Run() error {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	win, err := openWindow(a.Config)
	if err != nil {
		return err
	}
	a.window = win
	defer a.window.Close()

	log.Printf("[App] Janela inicializada (%s, %dx%d)", a.Config.WindowBackend, a.Config.WindowWidth, a.Config.WindowHeight)

	if err := a.init(); err != nil {
		a.shutdown()
		return err
	}

	go a.connectServer()

	for !a.window.ShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	return nil
}

// init carrega blocos e assets e liga mundo, mesher e renderer.
func (a *App) init() error {
	gpu, err := render.NewGLDevice()
	if err != nil {
		return err
	}

	a.blocks, err = block.LoadRegistry(a.Config.BlocksFile)
	if err != nil {
		return fmt.Errorf("tabela de blocos: %w", err)
	}
	log.Printf("[App] %d tipos de bloco carregados de %s", a.blocks.Len(), a.Config.BlocksFile)

	a.assets, err = assets.LoadCache(os.DirFS(a.Config.AssetsDir), a.blocks)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}

	a.renderer, err = render.NewRenderer(a.assets.Textures(), float32(a.Config.DrawDistance*util.ChunkSize))
	if err != nil {
		return err
	}
	a.renderer.Wireframe = a.Config.WireframeMode

	a.store = world.NewStore()
	mesher := meshing.NewMesher(a.blocks, a.assets)
	a.generator = render.NewGenerator(a.store, mesher, gpu, render.GeneratorOptions{
		Workers:              a.Config.Workers(),
		MaxSnapshotsPerFrame: a.Config.MaxSnapshotsPerFrame,
		ReprioritizeDistance: a.Config.ReprioritizeDistance,
	})

	a.Cam = camera.New(a.spawn(), a.Config.FOV)

	if !a.Offline {
		a.feed = client.NewFeed(a.Config.ServerURL, a.store)
		a.feed.OnStatus = a.setStatus
	}

	if a.Config.CacheEnabled {
		a.cache, err = world.OpenColumnCache(a.Config.CachePath)
		if err != nil {
			// sem cache o cliente continua funcionando, só não lembra do mundo
			log.Printf("[Cache] AVISO: cache desativado: %v", err)
			a.cache = nil
		}
	}
	return nil
}

func (a *App) spawn() mgl32.Vec3 {
	return mgl32.Vec3{a.Config.SpawnX, a.Config.SpawnY, a.Config.SpawnZ}
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++
	dt := a.window.FrameTime()

	a.updateInput(dt)
	a.Cam.Update(dt)
	a.updateWorld()
	a.handleAutoSave()
}

func (a *App) setStatus(msg string) {
	a.statusMu.Lock()
	a.status = msg
	a.statusMu.Unlock()
}

func (a *App) getStatus() string {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.status
}

// shutdown libera os recursos na ordem inversa da criação.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			log.Printf("[Network] Erro ao fechar conexão: %v", err)
		}
	}

	a.saveCache()
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			log.Printf("[Cache] Erro ao fechar cache: %v", err)
		}
	}

	if a.generator != nil {
		a.generator.Close()
	}
	if a.renderer != nil {
		a.renderer.Unload()
	}

	if err := a.Config.Save(); err != nil {
		log.Printf("[App] Erro ao salvar configurações: %v", err)
	}
}
