package api

import (
	"sync"

	"zaliv/internal/config"
	"zaliv/internal/model"
	"zaliv/internal/mysql"
)

// Registry — валидированная модель под RWMutex плюс кэш
// скомпилированного скрипта с настройками из конфига. Сама модель
// после Validate неизменяемая, лок нужен только для атомарной
// подмены при /admin/reload.
type Registry struct {
	mu     sync.RWMutex
	model  *model.Model
	cfg    config.Config
	script string // пусто, если модель не компилируется
}

func NewRegistry(m *model.Model, cfg config.Config) *Registry {
	r := &Registry{model: m, cfg: cfg}
	r.script = compileScript(m, cfg)
	return r
}

func compileScript(m *model.Model, cfg config.Config) string {
	stmts, err := mysql.Compile(m, cfg.Database, mysql.CompileOptions{TopoOrder: cfg.Ordered})
	if err != nil {
		return ""
	}
	return mysql.Script(stmts)
}

func (r *Registry) Model() *model.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model
}

func (r *Registry) Config() config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Script — кэш скрипта для настроек по умолчанию; ok=false, когда
// модель не компилируется и надо пересобрать ради текста ошибки.
func (r *Registry) Script() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.script, r.script != ""
}

// Replace атомарно подменяет модель (после успешной валидации новой)
// и пересобирает кэш скрипта.
func (r *Registry) Replace(m *model.Model) {
	r.mu.Lock()
	r.model = m
	r.script = compileScript(m, r.cfg)
	r.mu.Unlock()
}
