// Copyright © 2025 WowSQL, Inc.
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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WoWSQL/wowsql-go/storage"
)

var (
	uploadKey         string
	uploadFolder      string
	uploadContentType string
	listPrefix        string
	urlExpires        int
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage project object storage",
}

var storageLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := client.Storage().ListFiles(cmd.Context(), listPrefix, 0)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%12d  %s\n", f.Size, f.Key)
		}
		return nil
	},
}

var storageUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client.Storage().UploadFromPath(cmd.Context(), args[0], uploadKey, &storage.UploadOptions{
			Folder:      uploadFolder,
			ContentType: uploadContentType,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var storageRmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.Storage().DeleteFile(cmd.Context(), args[0])
	},
}

var storageURLCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Get a download URL for a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := client.Storage().GetFileURL(cmd.Context(), args[0], urlExpires)
		if err != nil {
			return err
		}
		return printJSON(meta)
	},
}

var storageQuotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the project's storage quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		quota, err := client.Storage().GetQuota(cmd.Context(), true)
		if err != nil {
			return err
		}
		return printJSON(quota)
	},
}

func init() {
	storageUploadCmd.Flags().StringVar(&uploadKey, "key", "", "object key (default file base name)")
	storageUploadCmd.Flags().StringVar(&uploadFolder, "folder", "", "folder prefix for the key")
	storageUploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "content type")
	storageLsCmd.Flags().StringVar(&listPrefix, "prefix", "", "key prefix to filter on")
	storageURLCmd.Flags().IntVar(&urlExpires, "expires", 0, "URL lifetime in seconds (default 3600)")

	storageCmd.AddCommand(storageLsCmd)
	storageCmd.AddCommand(storageUploadCmd)
	storageCmd.AddCommand(storageRmCmd)
	storageCmd.AddCommand(storageURLCmd)
	storageCmd.AddCommand(storageQuotaCmd)
	rootCmd.AddCommand(storageCmd)
}
