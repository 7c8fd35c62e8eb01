package court

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("court.repository: court not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("court.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("court.repository: failed to scan row")

	// ErrDecodeConfig возвращается, когда сохранённая конфигурация корта не разбирается или невалидна
	ErrDecodeConfig = errors.New("court.repository: invalid stored court configuration")
)
