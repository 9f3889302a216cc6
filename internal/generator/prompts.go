package generator

import (
	"fmt"
	"strings"
	"text/template"

	"radio-content-parser/internal/config"
)

const defaultEventsPrompt = `Liste {{.Count}} eventos culturais que acontecerão em breve em {{.City}}.
Para cada evento, escreva um bloco exatamente neste formato:

{{.Start}}
TITULO: nome do evento
DATA: data por extenso, por exemplo "15 de Julho"
LOCAL: local do evento
TIPO: uma destas categorias: SHOW, FESTA, TEATRO, CULTURA, ESPORTE, FEIRA, GERAL
IMAGEM: URL de uma imagem do evento, se houver
LINK: URL da página do evento ou dos ingressos
{{.End}}

Não escreva nada fora dos blocos.
{{- if .Context}}

Use as páginas abaixo como referência:

{{.Context}}
{{- end}}
`

const defaultNewsPrompt = `Liste as {{.Count}} notícias mais relevantes de hoje para {{.Region}}.
Para cada notícia, escreva um bloco exatamente neste formato:

{{.Start}}
TITULO: manchete
FONTE: nome do veículo
TIPO: uma destas categorias: LOCAL, BRASIL, MUNDO, CULTURA, ESPORTE, MUSICA, TECNOLOGIA, GERAL
RESUMO: resumo em uma ou duas frases
LINK: URL da matéria original
{{.End}}

Não invente links. Não escreva nada fora dos blocos.
{{- if .Context}}

Use as páginas abaixo como referência:

{{.Context}}
{{- end}}
`

const defaultTickerPrompt = `Escreva {{.Count}} manchetes curtas sobre {{.Region}} para um letreiro de rádio.
Uma manchete por linha, sem numeração, sem introdução e sem comentários.
{{- if .Context}}

Use as páginas abaixo como referência:

{{.Context}}
{{- end}}
`

// PromptData поля, доступные в шаблонах промптов
type PromptData struct {
	City    string
	Region  string
	Count   int
	Start   string
	End     string
	Context string
}

type PromptBuilder struct {
	cfg    *config.Config
	events *template.Template
	news   *template.Template
	ticker *template.Template
}

// NewPromptBuilder компилирует шаблоны; пустые переопределения заменяются встроенными
func NewPromptBuilder(cfg *config.Config, overrides *config.Prompts) (*PromptBuilder, error) {
	if overrides == nil {
		overrides = &config.Prompts{}
	}

	events, err := compilePrompt("events", overrides.Events, defaultEventsPrompt)
	if err != nil {
		return nil, err
	}
	news, err := compilePrompt("news", overrides.News, defaultNewsPrompt)
	if err != nil {
		return nil, err
	}
	ticker, err := compilePrompt("ticker", overrides.Ticker, defaultTickerPrompt)
	if err != nil {
		return nil, err
	}

	return &PromptBuilder{cfg: cfg, events: events, news: news, ticker: ticker}, nil
}

func compilePrompt(name, override, fallback string) (*template.Template, error) {
	text := fallback
	if strings.TrimSpace(override) != "" {
		text = override
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s prompt template: %w", name, err)
	}
	return tmpl, nil
}

func (b *PromptBuilder) Events(context string) (string, error) {
	return render(b.events, PromptData{
		City:    b.cfg.Events.City,
		Count:   b.cfg.Events.Count,
		Start:   b.cfg.Events.StartMarker,
		End:     b.cfg.Events.EndMarker,
		Context: context,
	})
}

func (b *PromptBuilder) News(context string) (string, error) {
	return render(b.news, PromptData{
		Region:  b.cfg.News.Region,
		Count:   b.cfg.News.Count,
		Start:   b.cfg.News.StartMarker,
		End:     b.cfg.News.EndMarker,
		Context: context,
	})
}

func (b *PromptBuilder) Ticker(context string) (string, error) {
	return render(b.ticker, PromptData{
		Region:  b.cfg.Ticker.Region,
		Count:   b.cfg.Ticker.MaxLines,
		Context: context,
	})
}

func render(tmpl *template.Template, data PromptData) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(sb.String()), nil
}
