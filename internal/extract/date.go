package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"radio-content-parser/internal/normalize"
)

const (
	// UnknownDay ставится, когда в дате нет ни одной цифры
	UnknownDay = "??"
	// UnknownMonth: подпись вместо месяца для дат вида "Em breve"
	UnknownMonth = "EM BREVE"
)

var (
	digitsRe    = regexp.MustCompile(`\d+`)
	connectorRe = regexp.MustCompile(`(?i)\b(?:de|do|da|dos|das|em|e|of|the)\b`)
	wordRe      = regexp.MustCompile(`\p{L}+`)

	ptMonthAbbr = [12]string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

	// Полные названия и сокращения месяцев (pt/en) после FoldAccents
	monthWords = map[string]bool{
		"JANEIRO": true, "JANUARY": true, "JAN": true,
		"FEVEREIRO": true, "FEBRUARY": true, "FEV": true, "FEB": true,
		"MARCO": true, "MARCH": true, "MAR": true,
		"ABRIL": true, "APRIL": true, "ABR": true, "APR": true,
		"MAIO": true, "MAY": true, "MAI": true,
		"JUNHO": true, "JUNE": true, "JUN": true,
		"JULHO": true, "JULY": true, "JUL": true,
		"AGOSTO": true, "AUGUST": true, "AGO": true, "AUG": true,
		"SETEMBRO": true, "SEPTEMBER": true, "SET": true, "SEP": true, "SEPT": true,
		"OUTUBRO": true, "OCTOBER": true, "OUT": true, "OCT": true,
		"NOVEMBRO": true, "NOVEMBER": true, "NOV": true,
		"DEZEMBRO": true, "DECEMBER": true, "DEZ": true, "DEC": true,
	}
)

// DeriveDayMonth раскладывает свободную дату на день и трёхбуквенный месяц.
//
// День: первая группа цифр. Месяц ищется в оставшемся тексте: сначала слово-месяц
// ("15 de Julho" → JUL), затем числовой месяц ("15/07" → JUL), иначе первые три буквы
// остатка без служебных слов. Без цифр возвращается ("??", "EM BREVE").
func DeriveDayMonth(date string) (day, month string) {
	loc := digitsRe.FindStringIndex(date)
	if loc == nil {
		return UnknownDay, UnknownMonth
	}
	day = date[loc[0]:loc[1]]
	rest := date[:loc[0]] + " " + date[loc[1]:]

	for _, word := range wordRe.FindAllString(rest, -1) {
		if monthWords[normalize.FoldAccents(word)] {
			return day, firstRunes(strings.ToUpper(word), 3)
		}
	}

	if m := digitsRe.FindString(date[loc[1]:]); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= 12 {
			return day, ptMonthAbbr[n-1]
		}
	}

	rest = connectorRe.ReplaceAllString(rest, " ")
	rest = strings.TrimFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
	if rest == "" {
		return day, UnknownMonth
	}
	return day, firstRunes(strings.ToUpper(rest), 3)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
