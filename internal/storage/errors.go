// Package storage объявляет ошибки, общие для всех реализаций хранилища пользователей.
package storage

import "errors"

var (
	// ErrUserNotFound — пользователь с указанным ключом отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists — нарушена уникальность userId или email.
	ErrUserExists = errors.New("user already exists")
)
