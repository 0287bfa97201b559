package models

// FileDescriptor — один загруженный файл в том виде, в каком его отдал транспорт.
type FileDescriptor struct {
	OriginalName string
	Buffer       []byte
}

// StoredFile описывает файл, записанный в дерево загрузок.
type StoredFile struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}
