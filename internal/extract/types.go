package extract

// Record значения полей одного блока по имени поля (TITULO, DATA, ...)
type Record map[string]string

// FieldSpec описывает одно поле блока.
// Normalize вызывается для непустого значения; пустой результат означает «использовать Default».
type FieldSpec struct {
	Name      string
	Default   string
	Normalize func(string) string
}

// Имена полей, которые генератор пишет внутри блоков
const (
	FieldTitle    = "TITULO"
	FieldDate     = "DATA"
	FieldLocation = "LOCAL"
	FieldCategory = "TIPO"
	FieldImage    = "IMAGEM"
	FieldLink     = "LINK"
	FieldSource   = "FONTE"
	FieldSummary  = "RESUMO"
)

// Event: карточка мероприятия для афиши
type Event struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Day      string `json:"day"`
	Month    string `json:"month"`
	Location string `json:"location"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
}

// NewsItem: элемент новостной ленты; Title и URL всегда непустые
type NewsItem struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}
