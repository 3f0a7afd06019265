// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"gorm.io/gorm"
)

// findOne loads the first row matching the query, returning notFound when no
// row matches
func findOne[T any](
	db *gorm.DB,
	notFound error,
	query string,
	args ...any,
) (T, error) {
	var ret T
	result := db.Where(query, args...).Limit(1).Find(&ret)
	if result.Error != nil {
		return ret, result.Error
	}
	if result.RowsAffected == 0 {
		return ret, notFound
	}
	return ret, nil
}

// save inserts or updates a row depending on whether its primary key is set
func save[T any](db *gorm.DB, row *T) error {
	return db.Save(row).Error
}
