// Package isbn проверяет контрольные цифры ISBN-10 и ISBN-13.
package isbn

import "strings"

// Validate проверяет номер ISBN по контрольной цифре.
// Дефисы и пробелы игнорируются; принимаются формы из 10 и 13 символов
func Validate(number string) bool {
	number = strings.ReplaceAll(number, "-", "")
	number = strings.ReplaceAll(number, " ", "")

	switch len(number) {
	case 10:
		return validate10(number)
	case 13:
		return validate13(number)
	default:
		return false
	}
}

// validate10: сумма позиций с весами 10..1 кратна 11,
// последняя позиция допускает 'X' как значение 10
func validate10(number string) bool {
	sum := 0
	for i, ch := range number {
		var digit int
		switch {
		case ch >= '0' && ch <= '9':
			digit = int(ch - '0')
		case (ch == 'X' || ch == 'x') && i == 9:
			digit = 10
		default:
			return false
		}
		sum += digit * (10 - i)
	}
	return sum%11 == 0
}

// validate13: чередующиеся веса 1 и 3, сумма кратна 10
func validate13(number string) bool {
	sum := 0
	for i, ch := range number {
		if ch < '0' || ch > '9' {
			return false
		}
		digit := int(ch - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return sum%10 == 0
}
