// Copyright 2026 cloudygreybeard
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

package switcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// AddGroup appends a new group name.
func (c *Controller) AddGroup(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("group name: %w", environment.ErrEmptyField)
	}

	groups, err := c.store.Groups(ctx)
	if err != nil {
		return err
	}
	if indexOf(groups, name) >= 0 {
		return fmt.Errorf("%s: %w", name, environment.ErrDuplicateGroup)
	}

	if err := c.store.SetGroups(ctx, append(groups, name)); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}

// RenameGroup renames a group and every record that references it.
func (c *Controller) RenameGroup(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("group name: %w", environment.ErrEmptyField)
	}

	doc, err := c.store.Document(ctx)
	if err != nil {
		return err
	}
	i := indexOf(doc.Groups, oldName)
	if i < 0 {
		return fmt.Errorf("%s: %w", oldName, environment.ErrGroupNotFound)
	}
	if newName == oldName {
		return nil
	}
	if indexOf(doc.Groups, newName) >= 0 {
		return fmt.Errorf("%s: %w", newName, environment.ErrDuplicateGroup)
	}

	doc.Groups[i] = newName
	for j := range doc.Environments {
		if doc.Environments[j].Group == oldName {
			doc.Environments[j].Group = newName
		}
	}

	if err := c.store.SetDocument(ctx, doc); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}

// PromptRenameGroup asks for a new name for oldName, offering the current
// one, and renames the group. Keeping the name changes nothing.
func (c *Controller) PromptRenameGroup(ctx context.Context, oldName string) (string, error) {
	newName, err := c.prompt.Prompt(ctx, fmt.Sprintf("New name for group %q", oldName), oldName)
	if err != nil {
		return "", err
	}
	if err := c.RenameGroup(ctx, oldName, newName); err != nil {
		return "", err
	}
	return strings.TrimSpace(newName), nil
}

// DeleteGroup removes a group after confirmation. Its records become
// ungrouped. It reports whether the group was removed.
func (c *Controller) DeleteGroup(ctx context.Context, name string) (bool, error) {
	groups, err := c.store.Groups(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(groups, name) < 0 {
		return false, fmt.Errorf("%s: %w", name, environment.ErrGroupNotFound)
	}

	ok, err := c.prompt.Confirm(ctx, fmt.Sprintf("Delete group %q? Its environments become ungrouped.", name))
	if err != nil || !ok {
		return false, err
	}

	doc, err := c.store.Document(ctx)
	if err != nil {
		return false, err
	}
	kept := doc.Groups[:0]
	for _, g := range doc.Groups {
		if g != name {
			kept = append(kept, g)
		}
	}
	doc.Groups = kept

	cleared := 0
	for j := range doc.Environments {
		if doc.Environments[j].Group == name {
			doc.Environments[j].Group = ""
			cleared++
		}
	}

	if err := c.store.SetDocument(ctx, doc); err != nil {
		return false, err
	}
	logging.Info(subsystem, "deleted group %s, %d environments ungrouped", name, cleared)
	c.Broadcast(ctx)
	return true, nil
}

// MoveGroup puts group from at the position group to currently holds.
func (c *Controller) MoveGroup(ctx context.Context, from, to string) error {
	groups, err := c.store.Groups(ctx)
	if err != nil {
		return err
	}
	fi := indexOf(groups, from)
	if fi < 0 {
		return fmt.Errorf("%s: %w", from, environment.ErrGroupNotFound)
	}
	ti := indexOf(groups, to)
	if ti < 0 {
		return fmt.Errorf("%s: %w", to, environment.ErrGroupNotFound)
	}
	if fi == ti {
		return nil
	}

	if err := c.store.SetGroups(ctx, move(groups, fi, ti)); err != nil {
		return err
	}
	c.Broadcast(ctx)
	return nil
}
