package model

import "errors"

// ErrConfig — структурное нарушение модели (дубликат имени, висячая
// ссылка, коллизия junction-таблицы). Всегда фатально: внутренних
// повторов нет, вызывающий чинит объявления и запускает заново.
var ErrConfig = errors.New("configuration error")
