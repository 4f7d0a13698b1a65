package content

// Defaults возвращает зашитый в приложение документ по умолчанию.
// Инвариант: каждый ключ верхнего уровня определён всегда, даже если в
// хранилище партиция пуста — витрина и API могут считать, что любой путь
// существует. Значения уже в JSON-домене.
func Defaults() Document {
	text := func(s string) map[string]any {
		return map[string]any{
			"content": s,
			"style": map[string]any{
				"font":  "Inter",
				"color": "#ffffff",
				"size":  "16px",
			},
		}
	}

	return Document{
		"header": map[string]any{
			"logo":    "/assets/logo.svg",
			"phone":   text("+7 (900) 000-00-00"),
			"address": text("г. Москва, ул. Гаражная, 1"),
			"banners": []any{
				map[string]any{
					"id":       "banner-1",
					"image":    "/assets/banner-default.jpg",
					"hotspots": []any{},
				},
			},
		},
		"tabs": []any{
			map[string]any{"id": "home", "title": text("Главная"), "visible": true},
			map[string]any{"id": "services", "title": text("Услуги"), "visible": true},
			map[string]any{"id": "projects", "title": text("Проекты"), "visible": true},
			map[string]any{"id": "ranking", "title": text("Рейтинг"), "visible": true},
			map[string]any{"id": "shop", "title": text("Магазин"), "visible": true},
			map[string]any{"id": "faq", "title": text("FAQ"), "visible": true},
			map[string]any{"id": "contact", "title": text("Контакты"), "visible": true},
		},
		"home": map[string]any{
			"heroTitle":    text("Чип-тюнинг и доработка спортивных автомобилей"),
			"heroSubtitle": text("Мощность, замер на стенде, гарантия"),
			"aboutTitle":   text("О мастерской"),
			"aboutText":    text("Настраиваем атмосферные и турбированные моторы с 2012 года."),
			"gallery":      []any{},
		},
		"services": map[string]any{
			"title": text("Услуги"),
			"items": []any{
				map[string]any{"id": "stage1", "name": text("Stage 1"), "description": text("Прошивка ЭБУ"), "price": text("от 15 000 ₽")},
				map[string]any{"id": "dyno", "name": text("Замер на стенде"), "description": text("Диностенд до 2000 л.с."), "price": text("5 000 ₽")},
			},
		},
		"specialistBrands": []any{},
		"partners":         []any{},
		"brands":           []any{},
		"faq": map[string]any{
			"title": text("Частые вопросы"),
			"items": []any{},
		},
		"ranking": map[string]any{
			"title":   text("Рейтинг мощности"),
			"entries": []any{},
			"colors": map[string]any{
				"top5":  "#e6b400",
				"top10": "#b0b0b0",
				"rest":  "#3a3a3a",
			},
		},
		"shop": map[string]any{
			"title":    text("Магазин"),
			"products": []any{},
		},
		"contact": map[string]any{
			"title":   text("Контакты"),
			"phone":   text("+7 (900) 000-00-00"),
			"email":   text("info@example.ru"),
			"address": text("г. Москва, ул. Гаражная, 1"),
			"mapUrl":  "",
		},
		"footer": map[string]any{
			"text": text("© Мастерская. Все права защищены."),
		},
		"projects":      []any{},
		"projectsDraft": []any{},
		"subTabsConfig": []any{},
		"techSheet": map[string]any{
			"layout":     []any{},
			"background": "",
		},
		"savedSheets": []any{},
		"folders":     []any{},
		// Админ по умолчанию — меняется через раздел пользователей.
		"users": []any{
			map[string]any{"id": "admin", "username": "admin", "password": "admin", "role": "admin"},
		},
		"categoryTags": []any{
			map[string]any{"id": "turbo", "name": "Турбо"},
			map[string]any{"id": "atmo", "name": "Атмо"},
		},
		"specPresets": []any{},
		"social": map[string]any{
			"telegram": "",
			"youtube":  "",
			"vk":       "",
		},
		"styles": map[string]any{
			"primaryColor": "#e10600",
			"background":   "#101010",
			"font":         "Inter",
		},
	}
}

// DefaultsFor — дефолтные значения только для ключей одной партиции.
// Используется при первом запуске, когда удалённого документа ещё нет.
func DefaultsFor(p Partition) Document {
	return OwnedKeys(Defaults(), p)
}
