// Package resthttp реализует REST API сервиса загрузок поверх локального диска. Основные эндпоинты:
//   - POST /upload[/{category}] — принимает один файл из multipart-поля "file".
//   - POST /uploads[/{category}] — принимает все файлы из multipart-поля "files", порядок сохраняется.
//   - GET <static_prefix>/... — отдаёт сохранённые файлы, листинг каталогов закрыт.
//   - GET /health — суммарный объём дерева загрузок для health-check'ов.
//   - POST /admin/gc — ручное удаление дневных разделов старше retention_days.
//   - GET /admin/config — текущая конфигурация.
package resthttp
