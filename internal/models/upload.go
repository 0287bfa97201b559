package models

import "encoding/json"

type payloadKind int

const (
	payloadNone payloadKind = iota
	payloadSingle
	payloadMany
)

// Payload несёт либо один файл, либо упорядоченный список файлов.
// Нулевое значение не несёт ничего и отклоняется как невалидный ввод.
type Payload struct {
	kind  payloadKind
	files []FileDescriptor
}

// SingleFile оборачивает один файл.
func SingleFile(f FileDescriptor) Payload {
	return Payload{kind: payloadSingle, files: []FileDescriptor{f}}
}

// ManyFiles оборачивает список файлов; пустой список допустим.
func ManyFiles(files ...FileDescriptor) Payload {
	return Payload{kind: payloadMany, files: append([]FileDescriptor{}, files...)}
}

func (p Payload) IsSingle() bool { return p.kind == payloadSingle }
func (p Payload) IsMany() bool   { return p.kind == payloadMany }

// Files возвращает файлы в исходном порядке.
func (p Payload) Files() []FileDescriptor {
	return p.files
}

// UploadRequest — вход одного вызова загрузки.
type UploadRequest struct {
	Files             Payload
	Category          string
	AllowedExtensions []string
}

// UploadResult содержит либо один сохранённый файл, либо их список.
type UploadResult struct {
	Single *StoredFile
	Many   []StoredFile
}

// MarshalJSON кодирует одиночный результат объектом, а множественный — массивом.
func (r UploadResult) MarshalJSON() ([]byte, error) {
	if r.Many != nil {
		return json.Marshal(r.Many)
	}
	if r.Single != nil {
		return json.Marshal(r.Single)
	}
	return json.Marshal(StoredFile{})
}
