// Package mocknews serves fixed article datasets that stand in for the live upstream.
package mocknews

import (
	"context"
	"fmt"
	"time"

	"github.com/DeafMist/newsdesk/internal/models"
)

// DefaultDelay simulates upstream latency.
const DefaultDelay = time.Second

// Dataset selects which headline set Headlines returns.
type Dataset string

const (
	// DatasetBasic holds three headlines.
	DatasetBasic Dataset = "basic"
	// DatasetExtended holds six headlines.
	DatasetExtended Dataset = "extended"
)

// ParseDataset maps a config value to a Dataset.
func ParseDataset(raw string) (Dataset, error) {
	switch Dataset(raw) {
	case DatasetBasic, DatasetExtended:
		return Dataset(raw), nil
	case "":
		return DatasetBasic, nil
	default:
		return "", fmt.Errorf("unknown mock dataset %q", raw)
	}
}

type entry struct {
	title       string
	description string
	url         string
	image       string
	source      string
	author      string
	age         time.Duration
}

var headlines = []entry{
	{
		title:       "Nova tecnologia revoluciona o mercado brasileiro",
		description: "Empresas nacionais desenvolvem soluções inovadoras que prometem transformar diversos setores da economia.",
		url:         "https://example.com/noticia1",
		image:       "https://via.placeholder.com/400x200/667eea/ffffff?text=Tecnologia",
		source:      "TechBrasil",
		author:      "João Silva",
	},
	{
		title:       "Economia brasileira mostra sinais de recuperação",
		description: "Indicadores econômicos apontam para um crescimento sustentado nos próximos trimestres.",
		url:         "https://example.com/noticia2",
		image:       "https://via.placeholder.com/400x200/10b981/ffffff?text=Economia",
		source:      "EconomiaHoje",
		author:      "Maria Santos",
		age:         time.Hour,
	},
	{
		title:       "Descoberta científica promete avanços na medicina",
		description: "Pesquisadores brasileiros fazem descoberta importante que pode revolucionar tratamentos médicos.",
		url:         "https://example.com/noticia3",
		image:       "https://via.placeholder.com/400x200/ef4444/ffffff?text=Ciencia",
		source:      "CiênciaBrasil",
		author:      "Dr. Carlos Oliveira",
		age:         2 * time.Hour,
	},
	{
		title:       "Inovação em energias renováveis ganha destaque",
		description: "Novas soluções sustentáveis prometem revolucionar o setor energético nacional.",
		url:         "https://example.com/noticia4",
		image:       "https://via.placeholder.com/400x200/22c55e/ffffff?text=Energia",
		source:      "EnergiaBrasil",
		author:      "Ana Costa",
		age:         3 * time.Hour,
	},
	{
		title:       "Educação digital transforma o ensino",
		description: "Plataformas online e novas metodologias revolucionam a forma de aprender.",
		url:         "https://example.com/noticia5",
		image:       "https://via.placeholder.com/400x200/8b5cf6/ffffff?text=Educacao",
		source:      "EduTech",
		author:      "Roberto Lima",
		age:         4 * time.Hour,
	},
	{
		title:       "Startups brasileiras atraem investimentos recordes",
		description: "Ecossistema de inovação nacional recebe aportes bilionários de fundos internacionais.",
		url:         "https://example.com/noticia6",
		image:       "https://via.placeholder.com/400x200/f97316/ffffff?text=Startups",
		source:      "StartupBrasil",
		author:      "Paula Ferreira",
		age:         5 * time.Hour,
	},
}

// Source produces mock FetchResults after an artificial delay.
type Source struct {
	delay   time.Duration
	dataset Dataset
	now     func() time.Time
}

// Option tweaks a Source.
type Option func(*Source)

// WithDelay overrides the simulated latency. Negative values mean no delay.
func WithDelay(d time.Duration) Option {
	return func(s *Source) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithDataset picks the headline dataset.
func WithDataset(d Dataset) Option {
	return func(s *Source) { s.dataset = d }
}

// WithClock sets the time source used for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New creates a Source with the basic dataset and the default delay.
func New(opts ...Option) *Source {
	s := &Source{delay: DefaultDelay, dataset: DatasetBasic, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Headlines returns the fixed headline dataset.
func (s *Source) Headlines(ctx context.Context) (*models.FetchResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	set := headlines[:3]
	if s.dataset == DatasetExtended {
		set = headlines
	}
	return s.build(set), nil
}

// Search returns three results built around the query text.
func (s *Source) Search(ctx context.Context, query string) (*models.FetchResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	set := []entry{
		{
			title:       fmt.Sprintf("Resultados da busca por: %q", query),
			description: "Esta é uma simulação de busca. Configure sua API key da NewsAPI para resultados reais.",
			url:         "https://example.com/busca",
			image:       "https://via.placeholder.com/400x200/9333ea/ffffff?text=Busca",
			source:      "BuscaDemo",
			author:      "Sistema",
		},
		{
			title:       "Artigo relacionado a: " + query,
			description: fmt.Sprintf("Conteúdo mock relacionado ao termo pesquisado: %s. Para resultados reais, configure NEWS_API_KEY.", query),
			url:         "https://example.com/busca2",
			image:       "https://via.placeholder.com/400x200/f59e0b/ffffff?text=Mock",
			source:      "ResultadoDemo",
			author:      "Bot",
			age:         30 * time.Minute,
		},
		{
			title:       fmt.Sprintf("Mais sobre %s - Exemplo", query),
			description: fmt.Sprintf("Terceiro resultado simulado para a busca de %q. Implementação completa disponível com API real.", query),
			url:         "https://example.com/busca3",
			image:       "https://via.placeholder.com/400x200/06b6d4/ffffff?text=Resultado",
			source:      "MockNews",
			author:      "Demo",
			age:         time.Hour,
		},
	}
	return s.build(set), nil
}

func (s *Source) wait(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Source) build(set []entry) *models.FetchResult {
	now := s.now().UTC()
	articles := make([]models.RawArticle, 0, len(set))
	for _, e := range set {
		articles = append(articles, models.RawArticle{
			Source:      &models.RawSource{Name: models.Str(e.source)},
			Author:      models.Str(e.author),
			Title:       models.Str(e.title),
			Description: models.Str(e.description),
			URL:         models.Str(e.url),
			URLToImage:  models.Str(e.image),
			PublishedAt: models.Str(now.Add(-e.age).Format(models.TimeLayout)),
		})
	}

	return &models.FetchResult{
		Status:       "ok",
		TotalResults: len(articles),
		Articles:     articles,
	}
}
