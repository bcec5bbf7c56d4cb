package world

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"TerraVision/shared/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ColumnModel é o esquema do banco para uma coluna.
type ColumnModel struct {
	ID        string `gorm:"primaryKey"` // "X_Z"
	X, Z      int32  `gorm:"index:idx_col"`
	Data      []byte // seções serializadas em GOB
	MTime     int64
	UpdatedAt time.Time
}

// CacheMetadata guarda informações globais do cache.
type CacheMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// CurrentFormatVersion muda sempre que o formato de Data mudar.
const CurrentFormatVersion = 1

// columnData é o que vai para o GOB: gob não aceita ponteiros nil dentro de
// arrays, então só as seções presentes são gravadas.
type columnData struct {
	Sections map[int]*ChunkData
}

// ColumnCache persiste colunas em SQLite para permitir reabrir o mundo sem servidor.
type ColumnCache struct {
	mu sync.Mutex // serializa escritas (evita "database is locked")
	DB *gorm.DB
}

// OpenColumnCache abre (ou cria) o banco e roda as migrações.
func OpenColumnCache(path string) (*ColumnCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&ColumnModel{}, &CacheMetadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	db.Save(&CacheMetadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})

	log.Printf("[Cache] Banco de dados SQLite aberto: %s", path)
	return &ColumnCache{DB: db}, nil
}

func columnID(coord util.ColumnCoord) string {
	return fmt.Sprintf("%d_%d", coord.X, coord.Z)
}

// SaveColumn grava (upsert) uma coluna.
func (c *ColumnCache) SaveColumn(col *Column) error {
	if c == nil || c.DB == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}

	data := columnData{Sections: make(map[int]*ChunkData)}
	for i, section := range col.Sections {
		if section != nil {
			data.Sections[i] = section
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&data); err != nil {
		return fmt.Errorf("erro GOB na coluna %v: %w", col.Coord, err)
	}

	model := ColumnModel{
		ID:    columnID(col.Coord),
		X:     col.Coord.X,
		Z:     col.Coord.Z,
		Data:  buf.Bytes(),
		MTime: col.MTime,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.DB.Save(&model).Error; err != nil {
		return fmt.Errorf("erro ao salvar coluna %s: %w", model.ID, err)
	}
	return nil
}

// LoadColumn lê uma coluna do banco.
func (c *ColumnCache) LoadColumn(coord util.ColumnCoord) (*Column, error) {
	if c == nil || c.DB == nil {
		return nil, fmt.Errorf("banco de dados não inicializado")
	}

	var model ColumnModel
	if err := c.DB.First(&model, "id = ?", columnID(coord)).Error; err != nil {
		return nil, err
	}
	return decodeColumn(&model)
}

func decodeColumn(model *ColumnModel) (*Column, error) {
	var data columnData
	if err := gob.NewDecoder(bytes.NewReader(model.Data)).Decode(&data); err != nil {
		return nil, fmt.Errorf("erro GOB na coluna %s: %w", model.ID, err)
	}

	col := &Column{Coord: util.ColumnCoord{X: model.X, Z: model.Z}, MTime: model.MTime}
	for i, section := range data.Sections {
		if i >= 0 && i < util.ChunksPerColumn {
			col.Sections[i] = section
		}
	}
	return col, nil
}

// Close fecha a conexão.
func (c *ColumnCache) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save grava todas as colunas sujas do Store. O IO acontece fora do lock.
func (s *Store) Save(cache *ColumnCache) (int, error) {
	dirty := s.dirtyColumns()
	if len(dirty) == 0 {
		return 0, nil
	}

	count := 0
	for _, col := range dirty {
		if err := cache.SaveColumn(col); err != nil {
			log.Printf("[Cache] %v", err)
			continue
		}
		count++
	}
	log.Printf("[Cache] Salvamento concluído: %d colunas persistidas.", count)
	return count, nil
}

// Restore carrega todas as colunas do cache para o Store, disparando os mesmos
// eventos de carregamento que uma coluna vinda da rede.
func (s *Store) Restore(cache *ColumnCache) (int, error) {
	if cache == nil || cache.DB == nil {
		return 0, fmt.Errorf("banco de dados não inicializado")
	}

	var models []ColumnModel
	if err := cache.DB.Order("x, z").Find(&models).Error; err != nil {
		return 0, fmt.Errorf("erro ao listar colunas: %w", err)
	}

	count := 0
	for i := range models {
		col, err := decodeColumn(&models[i])
		if err != nil {
			log.Printf("[Cache] %v", err)
			continue
		}
		s.ApplyStored(col)
		count++
	}
	log.Printf("[Cache] %d colunas restauradas do disco", count)
	return count, nil
}
